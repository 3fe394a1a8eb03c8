package inkview

import "time"

// Clock supplies the two time sources used to normalize device timestamps.
type Clock interface {
	// Now returns the wall-clock time.
	Now() time.Time
	// Monotonic returns microseconds on the same monotonic timeline the
	// platform uses for pointer timestamps.
	Monotonic() uint64
}

// systemClock measures monotonic time from its own creation.
type systemClock struct {
	start time.Time
}

// SystemClock returns a Clock backed by the time package. Its monotonic
// timeline starts at zero when SystemClock is called.
func SystemClock() Clock {
	return systemClock{start: time.Now()}
}

func (c systemClock) Now() time.Time { return time.Now() }

func (c systemClock) Monotonic() uint64 {
	return uint64(time.Since(c.start).Microseconds())
}

// TimeBase converts monotonic device timestamps to Unix epoch milliseconds.
// The offset between the two timelines is captured once, so the mapping is
// non-decreasing for the lifetime of the TimeBase.
type TimeBase struct {
	offset int64
}

// NewTimeBase captures the wall/monotonic offset from clock.
func NewTimeBase(clock Clock) TimeBase {
	wall := clock.Now().UnixMilli()
	mono := int64(clock.Monotonic() / 1000)
	return TimeBase{offset: wall - mono}
}

// EpochMillis converts a device timestamp in microseconds to epoch
// milliseconds.
func (tb TimeBase) EpochMillis(micros uint64) int64 {
	return tb.offset + int64(micros/1000)
}

// Offset returns the captured wall minus monotonic offset in milliseconds.
func (tb TimeBase) Offset() int64 {
	return tb.offset
}
