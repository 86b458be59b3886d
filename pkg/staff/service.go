package staff

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrMemberNotFound = errors.New("staff member not found")
	ErrShiftNotFound  = errors.New("shift not found")
	ErrShiftOverlap   = errors.New("shift overlaps an existing shift")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateMember(ctx context.Context, member Member) (*Member, error) {
	if member.Name == "" {
		return nil, errors.New("staff member name is required")
	}
	if member.HourlyWageCents < 0 {
		return nil, errors.New("hourly wage cannot be negative")
	}
	id, err := s.repo.StoreMember(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("failed to store staff member: %w", err)
	}
	member.ID = id
	return &member, nil
}

func (s *Service) GetMembers(ctx context.Context, includeInactive bool) ([]Member, error) {
	return s.repo.GetMembers(ctx, includeInactive)
}

func (s *Service) UpdateMember(ctx context.Context, member Member) (*Member, error) {
	if err := s.repo.UpdateMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update staff member %d: %w", member.ID, err)
	}
	return &member, nil
}

func (s *Service) DeleteMember(ctx context.Context, id int) error {
	return s.repo.DeleteMember(ctx, id)
}

// ScheduleShift validates and stores a shift. A member's shifts may touch but
// never overlap.
func (s *Service) ScheduleShift(ctx context.Context, shift Shift) (*Shift, error) {
	if err := s.validateShift(ctx, shift); err != nil {
		return nil, err
	}
	id, err := s.repo.StoreShift(ctx, shift)
	if err != nil {
		return nil, fmt.Errorf("failed to store shift: %w", err)
	}
	shift.ID = id
	return &shift, nil
}

func (s *Service) UpdateShift(ctx context.Context, shift Shift) (*Shift, error) {
	if err := s.validateShift(ctx, shift); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateShift(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to update shift %d: %w", shift.ID, err)
	}
	return &shift, nil
}

func (s *Service) DeleteShift(ctx context.Context, id int) error {
	return s.repo.DeleteShift(ctx, id)
}

// GetShifts returns shifts overlapping [from, to] for the schedule screen.
func (s *Service) GetShifts(ctx context.Context, from, to time.Time) ([]Shift, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("invalid shift range: %s is before %s", to, from)
	}
	return s.repo.GetShifts(ctx, from, to)
}

func (s *Service) validateShift(ctx context.Context, shift Shift) error {
	if shift.StartTime.IsZero() || shift.EndTime.IsZero() {
		return errors.New("shift start and end times are required")
	}
	if !shift.EndTime.After(shift.StartTime) {
		return errors.New("shift must end after it starts")
	}
	member, err := s.repo.GetMember(ctx, shift.StaffID)
	if err != nil {
		return fmt.Errorf("failed to load staff member %d: %w", shift.StaffID, err)
	}
	if member == nil {
		return fmt.Errorf("%w: %d", ErrMemberNotFound, shift.StaffID)
	}

	existing, err := s.repo.GetShiftsForMember(ctx, shift.StaffID, shift.StartTime.Add(-24*time.Hour), shift.EndTime.Add(24*time.Hour))
	if err != nil {
		return fmt.Errorf("failed to load existing shifts: %w", err)
	}
	for _, other := range existing {
		if other.ID != shift.ID && shift.Overlaps(other) {
			return fmt.Errorf("%w: shift %d (%s - %s)", ErrShiftOverlap, other.ID, other.StartTime, other.EndTime)
		}
	}
	return nil
}
