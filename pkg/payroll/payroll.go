package payroll

import "time"

// Summary is one staff member's pay for a period. Hours beyond the weekly
// overtime threshold are paid at time and a half.
type Summary struct {
	StaffID         int
	StaffName       string
	HourlyWageCents int
	RegularMinutes  int
	OvertimeMinutes int
	GrossCents      int
	PeriodStart     time.Time
	PeriodEnd       time.Time
}

const overtimeThresholdMinutes = 40 * 60
