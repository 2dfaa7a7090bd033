package clock

import "time"

type Clock interface {
	Now() time.Time
}

type clock struct{}

func (c *clock) Now() time.Time {
	return time.Now().UTC()
}

func New() Clock {
	return &clock{}
}

type Mock struct {
	now time.Time
}

func NewMock(now time.Time) *Mock {
	return &Mock{
		now: now,
	}
}

func (m *Mock) Now() time.Time {
	return m.now
}

// Advance moves the mock clock forward, to make records expire in tests
func (m *Mock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}
