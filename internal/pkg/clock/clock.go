// Package clock isolates the current time behind an interface so hold
// expiry and calendar rendering stay deterministic under test.
package clock

import "time"

// Clock supplies the current instant. Commands never read time.Now directly;
// every expiry decision flows through here.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

// MockClock is a hand-advanced clock for tests: create it at a fixed
// instant, then Add past the hold duration to make holds overdue.
type MockClock struct {
	currentTime time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

func (c *MockClock) Now() time.Time {
	return c.currentTime
}

func (c *MockClock) Set(t time.Time) {
	c.currentTime = t
}

func (c *MockClock) Add(d time.Duration) {
	c.currentTime = c.currentTime.Add(d)
}
