package calendar

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	FindEvents(ctx context.Context, from, to time.Time) ([]Event, error)
	FindEvent(ctx context.Context, id int) (*Event, error)
	StoreEvent(ctx context.Context, ev Event) (int, error)
	UpdateEvent(ctx context.Context, ev Event) (*Event, error)
	DeleteEvent(ctx context.Context, id int) error

	FindSpecials(ctx context.Context) ([]Special, error)
	StoreSpecial(ctx context.Context, sp Special) (int, error)
	UpdateSpecial(ctx context.Context, sp Special) (*Special, error)
	DeleteSpecial(ctx context.Context, id int) error

	FindAnnouncements(ctx context.Context, from, to time.Time) ([]Announcement, error)
	StoreAnnouncement(ctx context.Context, an Announcement) (int, error)
	UpdateAnnouncement(ctx context.Context, an Announcement) (*Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// FindEvents returns events overlapping [from, to], plus every recurring
// event regardless of its anchor: an anchor far in the past can still
// generate occurrences inside the range.
func (r *RepositoryImpl) FindEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	query := `SELECT id, title, description, start_time, end_time, all_day, recurrence_rule, exception_dates, tags, is_active, venue_area
		FROM calendar_event
		WHERE recurrence_rule <> ''
		   OR (start_time <= $1 AND COALESCE(end_time, start_time) >= $2)
		ORDER BY start_time, id`

	rows, err := r.db.QueryContext(ctx, query, to, from)
	if err != nil {
		err = fmt.Errorf("could not query events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

func (r *RepositoryImpl) FindEvent(ctx context.Context, id int) (*Event, error) {
	query := `SELECT id, title, description, start_time, end_time, all_day, recurrence_rule, exception_dates, tags, is_active, venue_area
		FROM calendar_event WHERE id = $1`

	ev, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		err = fmt.Errorf("could not query event %d: %w", id, err)
		log.Error(err)
		return nil, err
	}
	return ev, nil
}

func (r *RepositoryImpl) StoreEvent(ctx context.Context, ev Event) (int, error) {
	query := `INSERT INTO calendar_event (title, description, start_time, end_time, all_day, recurrence_rule, exception_dates, tags, is_active, venue_area)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	exceptions, tags, err := marshalEventLists(ev)
	if err != nil {
		return 0, err
	}

	var id int
	err = r.db.QueryRowContext(ctx, query,
		ev.Title, ev.Description, ev.StartTime, nullTime(ev.EndTime), ev.AllDay,
		ev.RecurrenceRule, exceptions, tags, ev.Active, ev.VenueArea,
	).Scan(&id)
	if err != nil {
		err = fmt.Errorf("could not store event: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) UpdateEvent(ctx context.Context, ev Event) (*Event, error) {
	query := `UPDATE calendar_event
		SET title = $1, description = $2, start_time = $3, end_time = $4, all_day = $5,
		    recurrence_rule = $6, exception_dates = $7, tags = $8, is_active = $9, venue_area = $10
		WHERE id = $11`

	exceptions, tags, err := marshalEventLists(ev)
	if err != nil {
		return nil, err
	}

	result, err := r.db.ExecContext(ctx, query,
		ev.Title, ev.Description, ev.StartTime, nullTime(ev.EndTime), ev.AllDay,
		ev.RecurrenceRule, exceptions, tags, ev.Active, ev.VenueArea, ev.ID,
	)
	if err != nil {
		err = fmt.Errorf("could not update event %d: %w", ev.ID, err)
		log.Error(err)
		return nil, err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, fmt.Errorf("%w: %d", ErrEventNotFound, ev.ID)
	}
	return &ev, nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM calendar_event WHERE id = $1", id)
	if err != nil {
		err = fmt.Errorf("could not delete event %d: %w", id, err)
		log.Error(err)
	}
	return err
}

// FindSpecials returns all specials. Weekly drink specials recur without
// bounds and ranged specials are clipped later by the aggregator, so the
// whole (small) table is loaded.
func (r *RepositoryImpl) FindSpecials(ctx context.Context) ([]Special, error) {
	query := `SELECT id, title, type, start_date, end_date, weekdays, is_active
		FROM calendar_special ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err = fmt.Errorf("could not query specials: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var specials []Special
	for rows.Next() {
		var sp Special
		var startDate, endDate sql.NullString
		var weekdaysJSON string
		if err := rows.Scan(&sp.ID, &sp.Title, &sp.Type, &startDate, &endDate, &weekdaysJSON, &sp.Active); err != nil {
			return nil, fmt.Errorf("could not scan special: %w", err)
		}
		if sp.StartDate, err = nullDate(startDate); err != nil {
			return nil, err
		}
		if sp.EndDate, err = nullDate(endDate); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(weekdaysJSON), &sp.Weekdays); err != nil {
			return nil, fmt.Errorf("could not decode weekdays of special %d: %w", sp.ID, err)
		}
		specials = append(specials, sp)
	}
	return specials, rows.Err()
}

func (r *RepositoryImpl) StoreSpecial(ctx context.Context, sp Special) (int, error) {
	query := `INSERT INTO calendar_special (title, type, start_date, end_date, weekdays, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	weekdays, err := json.Marshal(sp.Weekdays)
	if err != nil {
		return 0, fmt.Errorf("could not encode weekdays: %w", err)
	}

	var id int
	err = r.db.QueryRowContext(ctx, query,
		sp.Title, sp.Type, dateParam(sp.StartDate), dateParam(sp.EndDate), string(weekdays), sp.Active,
	).Scan(&id)
	if err != nil {
		err = fmt.Errorf("could not store special: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) UpdateSpecial(ctx context.Context, sp Special) (*Special, error) {
	query := `UPDATE calendar_special
		SET title = $1, type = $2, start_date = $3, end_date = $4, weekdays = $5, is_active = $6
		WHERE id = $7`

	weekdays, err := json.Marshal(sp.Weekdays)
	if err != nil {
		return nil, fmt.Errorf("could not encode weekdays: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query,
		sp.Title, sp.Type, dateParam(sp.StartDate), dateParam(sp.EndDate), string(weekdays), sp.Active, sp.ID,
	)
	if err != nil {
		err = fmt.Errorf("could not update special %d: %w", sp.ID, err)
		log.Error(err)
		return nil, err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, fmt.Errorf("%w: %d", ErrSpecialNotFound, sp.ID)
	}
	return &sp, nil
}

func (r *RepositoryImpl) DeleteSpecial(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM calendar_special WHERE id = $1", id)
	if err != nil {
		err = fmt.Errorf("could not delete special %d: %w", id, err)
		log.Error(err)
	}
	return err
}

func (r *RepositoryImpl) FindAnnouncements(ctx context.Context, from, to time.Time) ([]Announcement, error) {
	query := `SELECT id, title, publish_at, expires_at, is_published
		FROM calendar_announcement
		WHERE publish_at <= $1 AND expires_at >= $2
		ORDER BY publish_at, id`

	rows, err := r.db.QueryContext(ctx, query, to, from)
	if err != nil {
		err = fmt.Errorf("could not query announcements: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var announcements []Announcement
	for rows.Next() {
		var an Announcement
		if err := rows.Scan(&an.ID, &an.Title, &an.PublishAt, &an.ExpiresAt, &an.Published); err != nil {
			return nil, fmt.Errorf("could not scan announcement: %w", err)
		}
		announcements = append(announcements, an)
	}
	return announcements, rows.Err()
}

func (r *RepositoryImpl) StoreAnnouncement(ctx context.Context, an Announcement) (int, error) {
	query := `INSERT INTO calendar_announcement (title, publish_at, expires_at, is_published)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int
	err := r.db.QueryRowContext(ctx, query, an.Title, an.PublishAt, an.ExpiresAt, an.Published).Scan(&id)
	if err != nil {
		err = fmt.Errorf("could not store announcement: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) UpdateAnnouncement(ctx context.Context, an Announcement) (*Announcement, error) {
	query := `UPDATE calendar_announcement
		SET title = $1, publish_at = $2, expires_at = $3, is_published = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, an.Title, an.PublishAt, an.ExpiresAt, an.Published, an.ID)
	if err != nil {
		err = fmt.Errorf("could not update announcement %d: %w", an.ID, err)
		log.Error(err)
		return nil, err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, fmt.Errorf("%w: %d", ErrAnnouncementNotFound, an.ID)
	}
	return &an, nil
}

func (r *RepositoryImpl) DeleteAnnouncement(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM calendar_announcement WHERE id = $1", id)
	if err != nil {
		err = fmt.Errorf("could not delete announcement %d: %w", id, err)
		log.Error(err)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*Event, error) {
	var ev Event
	var endTime sql.NullTime
	var exceptionsJSON, tagsJSON string
	err := row.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.StartTime, &endTime,
		&ev.AllDay, &ev.RecurrenceRule, &exceptionsJSON, &tagsJSON, &ev.Active, &ev.VenueArea)
	if err != nil {
		return nil, err
	}
	if endTime.Valid {
		ev.EndTime = endTime.Time
	}
	if err := json.Unmarshal([]byte(exceptionsJSON), &ev.ExceptionDates); err != nil {
		return nil, fmt.Errorf("could not decode exception dates of event %d: %w", ev.ID, err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &ev.Tags); err != nil {
		return nil, fmt.Errorf("could not decode tags of event %d: %w", ev.ID, err)
	}
	return &ev, nil
}

func marshalEventLists(ev Event) (string, string, error) {
	exceptions, err := json.Marshal(orEmpty(ev.ExceptionDates))
	if err != nil {
		return "", "", fmt.Errorf("could not encode exception dates: %w", err)
	}
	tags, err := json.Marshal(orEmpty(ev.Tags))
	if err != nil {
		return "", "", fmt.Errorf("could not encode tags: %w", err)
	}
	return string(exceptions), string(tags), nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// dateParam renders a Date for storage. Unset dates become the empty string,
// which is what the date columns default to and what nullDate reads back as
// unset; writing NULL would trip the NOT NULL constraint.
func dateParam(d Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func nullDate(s sql.NullString) (Date, error) {
	if !s.Valid || s.String == "" {
		return Date{}, nil
	}
	return ParseDate(s.String)
}
