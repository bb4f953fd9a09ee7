// Package clock provides the coarse millisecond time source the sequencers
// schedule against.
package clock

import "time"

// Millis is a millisecond tick count. It wraps at 2^32, so two readings must
// only ever be compared through Sub.
type Millis uint32

// Sub returns t-u as a signed distance, correct across wraparound as long as
// the two readings are within ~24 days of each other.
func (t Millis) Sub(u Millis) int32 {
	return int32(t - u)
}

// Add returns t offset by d milliseconds (d may be negative).
func (t Millis) Add(d int32) Millis {
	return t + Millis(d)
}

// Clock is anything that can report the current time in milliseconds.
type Clock interface {
	Now() Millis
}

// System reads Go's monotonic clock.
type System struct {
	start  time.Time
	offset Millis
}

// NewSystem returns a clock that reads 0 now and counts up from there.
func NewSystem() *System {
	return &System{start: time.Now()}
}

// NewSystemAt returns a clock that reads offset now. Starting just below the
// wrap point is handy for exercising wraparound in a live loop.
func NewSystemAt(offset Millis) *System {
	return &System{start: time.Now(), offset: offset}
}

func (s *System) Now() Millis {
	return s.offset + Millis(time.Since(s.start).Milliseconds())
}

// Manual is a synthetic clock that only moves when told to.
type Manual struct {
	now Millis
}

// NewManual returns a manual clock reading start.
func NewManual(start Millis) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() Millis {
	return m.now
}

// Set jumps the clock to t.
func (m *Manual) Set(t Millis) {
	m.now = t
}

// Advance moves the clock forward by ms milliseconds.
func (m *Manual) Advance(ms uint32) {
	m.now += Millis(ms)
}
