package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Repository interface {
	GetMember(ctx context.Context, id int) (*Member, error)
	GetMembers(ctx context.Context, includeInactive bool) ([]Member, error)
	StoreMember(ctx context.Context, member Member) (int, error)
	UpdateMember(ctx context.Context, member Member) error
	DeleteMember(ctx context.Context, id int) error

	GetShift(ctx context.Context, id int) (*Shift, error)
	GetShifts(ctx context.Context, from, to time.Time) ([]Shift, error)
	GetShiftsForMember(ctx context.Context, staffID int, from, to time.Time) ([]Shift, error)
	StoreShift(ctx context.Context, shift Shift) (int, error)
	UpdateShift(ctx context.Context, shift Shift) error
	DeleteShift(ctx context.Context, id int) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetMember(ctx context.Context, id int) (*Member, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, role, hourly_wage_cents, is_active FROM staff_member WHERE id = $1", id)
	var m Member
	err := row.Scan(&m.ID, &m.Name, &m.Role, &m.HourlyWageCents, &m.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff member %d: %w", id, err)
	}
	return &m, nil
}

func (r *RepositoryImpl) GetMembers(ctx context.Context, includeInactive bool) ([]Member, error) {
	query := "SELECT id, name, role, hourly_wage_cents, is_active FROM staff_member"
	if !includeInactive {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY name"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.HourlyWageCents, &m.Active); err != nil {
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *RepositoryImpl) StoreMember(ctx context.Context, member Member) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO staff_member (name, role, hourly_wage_cents, is_active) VALUES ($1, $2, $3, $4) RETURNING id",
		member.Name, member.Role, member.HourlyWageCents, member.Active).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert staff member: %w", err)
	}
	return id, nil
}

func (r *RepositoryImpl) UpdateMember(ctx context.Context, member Member) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE staff_member SET name = $1, role = $2, hourly_wage_cents = $3, is_active = $4 WHERE id = $5",
		member.Name, member.Role, member.HourlyWageCents, member.Active, member.ID)
	if err != nil {
		return fmt.Errorf("failed to update staff member %d: %w", member.ID, err)
	}
	return nil
}

func (r *RepositoryImpl) DeleteMember(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM staff_member WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete staff member %d: %w", id, err)
	}
	return nil
}

func (r *RepositoryImpl) GetShift(ctx context.Context, id int) (*Shift, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, staff_id, start_time, end_time, position, notes FROM staff_shift WHERE id = $1", id)
	s, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift %d: %w", id, err)
	}
	return s, nil
}

func (r *RepositoryImpl) GetShifts(ctx context.Context, from, to time.Time) ([]Shift, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, staff_id, start_time, end_time, position, notes FROM staff_shift WHERE start_time <= $1 AND end_time >= $2 ORDER BY start_time",
		to, from)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts: %w", err)
	}
	defer rows.Close()
	return collectShifts(rows)
}

func (r *RepositoryImpl) GetShiftsForMember(ctx context.Context, staffID int, from, to time.Time) ([]Shift, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, staff_id, start_time, end_time, position, notes FROM staff_shift WHERE staff_id = $1 AND start_time <= $2 AND end_time >= $3 ORDER BY start_time",
		staffID, to, from)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts for staff member %d: %w", staffID, err)
	}
	defer rows.Close()
	return collectShifts(rows)
}

func (r *RepositoryImpl) StoreShift(ctx context.Context, shift Shift) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO staff_shift (staff_id, start_time, end_time, position, notes) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		shift.StaffID, shift.StartTime, shift.EndTime, shift.Position, shift.Notes).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shift: %w", err)
	}
	return id, nil
}

func (r *RepositoryImpl) UpdateShift(ctx context.Context, shift Shift) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE staff_shift SET staff_id = $1, start_time = $2, end_time = $3, position = $4, notes = $5 WHERE id = $6",
		shift.StaffID, shift.StartTime, shift.EndTime, shift.Position, shift.Notes, shift.ID)
	if err != nil {
		return fmt.Errorf("failed to update shift %d: %w", shift.ID, err)
	}
	return nil
}

func (r *RepositoryImpl) DeleteShift(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM staff_shift WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete shift %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (*Shift, error) {
	var s Shift
	if err := row.Scan(&s.ID, &s.StaffID, &s.StartTime, &s.EndTime, &s.Position, &s.Notes); err != nil {
		return nil, err
	}
	return &s, nil
}

func collectShifts(rows *sql.Rows) ([]Shift, error) {
	var shifts []Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, *s)
	}
	return shifts, rows.Err()
}
