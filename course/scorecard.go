package course

// Scorecard holds the latest finished result of every quiz step, so the
// completion summary can grade the whole course. Retaking a quiz replaces
// its entry once the retake finishes.
type Scorecard struct {
	results map[int]Result
}

func NewScorecard() Scorecard {
	return Scorecard{results: map[int]Result{}}
}

// Record returns a card with r stored for step. The receiver is unchanged.
func (c Scorecard) Record(step int, r Result) Scorecard {
	next := make(map[int]Result, len(c.results)+1)
	for k, v := range c.results {
		next[k] = v
	}
	next[step] = r
	return Scorecard{results: next}
}

// Overall sums every recorded quiz into one result. ok is false when no
// quiz has been finished.
func (c Scorecard) Overall() (r Result, ok bool) {
	if len(c.results) == 0 {
		return Result{}, false
	}
	score, total := 0, 0
	for _, res := range c.results {
		score += res.Score
		total += res.Total
	}
	return NewResult(score, total), true
}
