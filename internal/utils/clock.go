package utils

import "time"

// Clock abstracts time.Now so services can be tested at fixed instants.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock returns a fixed instant, settable from tests.
type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{FixedNow: now}
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

func (m *MockClock) Advance(d time.Duration) {
	m.FixedNow = m.FixedNow.Add(d)
}
