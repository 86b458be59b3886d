package staff

import (
	"context"
	"sort"
	"time"
)

// StubRepository is an in-memory Repository used by tests.
type StubRepository struct {
	Members map[int]Member
	Shifts  map[int]Shift
	nextID  int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		Members: map[int]Member{},
		Shifts:  map[int]Shift{},
	}
}

func (r *StubRepository) GetMember(_ context.Context, id int) (*Member, error) {
	m, ok := r.Members[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *StubRepository) GetMembers(_ context.Context, includeInactive bool) ([]Member, error) {
	var members []Member
	for _, m := range r.Members {
		if includeInactive || m.Active {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}

func (r *StubRepository) StoreMember(_ context.Context, member Member) (int, error) {
	r.nextID++
	member.ID = r.nextID
	r.Members[member.ID] = member
	return member.ID, nil
}

func (r *StubRepository) UpdateMember(_ context.Context, member Member) error {
	r.Members[member.ID] = member
	return nil
}

func (r *StubRepository) DeleteMember(_ context.Context, id int) error {
	delete(r.Members, id)
	return nil
}

func (r *StubRepository) GetShift(_ context.Context, id int) (*Shift, error) {
	s, ok := r.Shifts[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *StubRepository) GetShifts(_ context.Context, from, to time.Time) ([]Shift, error) {
	var shifts []Shift
	for _, s := range r.Shifts {
		if !s.StartTime.After(to) && !s.EndTime.Before(from) {
			shifts = append(shifts, s)
		}
	}
	sortShifts(shifts)
	return shifts, nil
}

func (r *StubRepository) GetShiftsForMember(_ context.Context, staffID int, from, to time.Time) ([]Shift, error) {
	var shifts []Shift
	for _, s := range r.Shifts {
		if s.StaffID == staffID && !s.StartTime.After(to) && !s.EndTime.Before(from) {
			shifts = append(shifts, s)
		}
	}
	sortShifts(shifts)
	return shifts, nil
}

func (r *StubRepository) StoreShift(_ context.Context, shift Shift) (int, error) {
	r.nextID++
	shift.ID = r.nextID
	r.Shifts[shift.ID] = shift
	return shift.ID, nil
}

func (r *StubRepository) UpdateShift(_ context.Context, shift Shift) error {
	r.Shifts[shift.ID] = shift
	return nil
}

func (r *StubRepository) DeleteShift(_ context.Context, id int) error {
	delete(r.Shifts, id)
	return nil
}

func sortShifts(shifts []Shift) {
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].StartTime.Before(shifts[j].StartTime) })
}
