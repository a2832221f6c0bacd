package course

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultAdvanceDelay is how long feedback stays up in timed mode when no
// delay is given.
const DefaultAdvanceDelay = 3000 * time.Millisecond

// AdvanceMode controls what happens after a quiz answer is graded. Manual
// waits for the learner; timed moves on by itself after Delay.
type AdvanceMode struct {
	Timed bool
	Delay time.Duration
}

func ManualAdvance() AdvanceMode { return AdvanceMode{} }

func TimedAdvance(delay time.Duration) AdvanceMode {
	if delay <= 0 {
		delay = DefaultAdvanceDelay
	}
	return AdvanceMode{Timed: true, Delay: delay}
}

func (m AdvanceMode) String() string {
	if !m.Timed {
		return "manual"
	}
	return fmt.Sprintf("timed(%d)", m.Delay.Milliseconds())
}

// ParseAdvanceMode accepts "manual", "timed", "timed(3000)" (milliseconds)
// and "timed(2s)".
func ParseAdvanceMode(s string) (AdvanceMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "manual":
		return ManualAdvance(), nil
	case "timed":
		return TimedAdvance(DefaultAdvanceDelay), nil
	}
	if !strings.HasPrefix(s, "timed(") || !strings.HasSuffix(s, ")") {
		return AdvanceMode{}, fmt.Errorf("invalid advance mode %q", s)
	}
	arg := strings.TrimSpace(s[len("timed(") : len(s)-1])
	if ms, err := strconv.Atoi(arg); err == nil {
		if ms <= 0 {
			return AdvanceMode{}, fmt.Errorf("invalid advance delay %q", arg)
		}
		return TimedAdvance(time.Duration(ms) * time.Millisecond), nil
	}
	d, err := time.ParseDuration(arg)
	if err != nil || d <= 0 {
		return AdvanceMode{}, fmt.Errorf("invalid advance delay %q", arg)
	}
	return TimedAdvance(d), nil
}

// Cancel stops a scheduled callback. Stop reports whether the call stopped
// it before it ran.
type Cancel interface {
	Stop() bool
}

// Scheduler runs f once after d. Tests swap in a manual clock.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Cancel
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Cancel {
	return time.AfterFunc(d, f)
}

// RealScheduler is backed by time.AfterFunc.
func RealScheduler() Scheduler { return realScheduler{} }

// advanceKey identifies the feedback a timed advance was scheduled for.
// A callback whose key no longer matches the session does nothing.
type advanceKey struct {
	step       int
	generation uint64
	question   int
}
