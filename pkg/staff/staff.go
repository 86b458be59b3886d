package staff

import "time"

// Member is one staff record. HourlyWageCents keeps money integral; payroll
// works in cents throughout.
type Member struct {
	ID              int
	Name            string
	Role            string
	HourlyWageCents int
	Active          bool
}

// Shift is one scheduled block of work for a staff member.
type Shift struct {
	ID        int
	StaffID   int
	StartTime time.Time
	EndTime   time.Time
	Position  string
	Notes     string
}

func (s Shift) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Overlaps reports whether two shifts share any time. Touching endpoints do
// not overlap, so back-to-back shifts are allowed.
func (s Shift) Overlaps(other Shift) bool {
	return s.StartTime.Before(other.EndTime) && other.StartTime.Before(s.EndTime)
}
