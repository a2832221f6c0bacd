package course

import "fmt"

type NavEvent int

const (
	NavNext NavEvent = iota
	NavPrevious
	NavJumpToStart
	NavJumpToEnd
	NavRestart
)

func (e NavEvent) String() string {
	switch e {
	case NavNext:
		return "next"
	case NavPrevious:
		return "previous"
	case NavJumpToStart:
		return "start"
	case NavJumpToEnd:
		return "end"
	case NavRestart:
		return "restart"
	default:
		return fmt.Sprintf("NavEvent(%d)", int(e))
	}
}

// NavState is the position in the item sequence. Completed is the terminal
// summary shown after Next on the last step; Step stays at Total-1 then.
type NavState struct {
	Step      int
	Total     int
	Completed bool
}

func NewNavState(total int) NavState {
	return NavState{Total: total}
}

func (s NavState) Apply(ev NavEvent) NavState {
	if s.Total <= 0 {
		return s
	}
	last := s.Total - 1
	switch ev {
	case NavNext:
		if s.Step < last {
			s.Step++
		} else {
			s.Completed = true
		}
	case NavPrevious:
		if s.Step > 0 {
			s.Step--
			s.Completed = false
		}
	case NavJumpToStart:
		s.Step = 0
		s.Completed = false
	case NavJumpToEnd:
		s.Step = last
		s.Completed = false
	case NavRestart:
		s.Step = 0
		s.Completed = false
	}
	return s
}

// Progress is the percentage of steps reached, counting the current one.
func (s NavState) Progress() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Step+1) / float64(s.Total) * 100
}

func (s NavState) CanGoBack() bool { return s.Step > 0 }

func (s NavState) AtLast() bool { return s.Total > 0 && s.Step == s.Total-1 }

func (s NavState) NextLabel() string {
	if s.AtLast() {
		return "Complete"
	}
	return "Next"
}

func (s NavState) StepLabel() string {
	return fmt.Sprintf("%d / %d", s.Step+1, s.Total)
}
