package payroll

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/barkeep/barkeep/pkg/staff"
)

// StaffSource provides the roster and shifts a pay period is computed from.
type StaffSource interface {
	GetMembers(ctx context.Context, includeInactive bool) ([]staff.Member, error)
	GetShifts(ctx context.Context, from, to time.Time) ([]staff.Shift, error)
}

type Service struct {
	source StaffSource
}

func NewService(source StaffSource) *Service {
	return &Service{source: source}
}

// GetPeriodSummaries computes per-member pay for shifts worked in [from, to).
// Weeks are anchored at the period start, and minutes beyond 40 hours in a
// week are paid at time and a half. Shift time outside the period is clipped.
func (s *Service) GetPeriodSummaries(ctx context.Context, from, to time.Time) ([]Summary, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("invalid pay period: %s is not after %s", to, from)
	}

	members, err := s.source.GetMembers(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff members: %w", err)
	}
	shifts, err := s.source.GetShifts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}

	weeklyMinutes := map[int]map[int]int{}
	for _, shift := range shifts {
		start := laterOf(shift.StartTime, from)
		end := earlierOf(shift.EndTime, to)
		if !end.After(start) {
			continue
		}
		if weeklyMinutes[shift.StaffID] == nil {
			weeklyMinutes[shift.StaffID] = map[int]int{}
		}
		// A shift can straddle a week boundary, so accrue it minute
		// ranges per week.
		for cursor := start; cursor.Before(end); {
			week := int(cursor.Sub(from) / (7 * 24 * time.Hour))
			weekEnd := from.Add(time.Duration(week+1) * 7 * 24 * time.Hour)
			segmentEnd := earlierOf(end, weekEnd)
			weeklyMinutes[shift.StaffID][week] += int(segmentEnd.Sub(cursor) / time.Minute)
			cursor = segmentEnd
		}
	}

	var summaries []Summary
	for _, member := range members {
		weeks := weeklyMinutes[member.ID]
		if len(weeks) == 0 {
			continue
		}
		summary := Summary{
			StaffID:         member.ID,
			StaffName:       member.Name,
			HourlyWageCents: member.HourlyWageCents,
			PeriodStart:     from,
			PeriodEnd:       to,
		}
		for _, minutes := range weeks {
			regular := minutes
			if regular > overtimeThresholdMinutes {
				regular = overtimeThresholdMinutes
			}
			summary.RegularMinutes += regular
			summary.OvertimeMinutes += minutes - regular
		}
		summary.GrossCents = grossCents(member.HourlyWageCents, summary.RegularMinutes, summary.OvertimeMinutes)
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].StaffName < summaries[j].StaffName })
	return summaries, nil
}

func grossCents(wageCents, regularMinutes, overtimeMinutes int) int {
	regular := wageCents * regularMinutes / 60
	overtime := wageCents * overtimeMinutes * 3 / 120
	return regular + overtime
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
