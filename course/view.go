package course

import "fmt"

type Screen string

const (
	ScreenLesson   Screen = "lesson"
	ScreenQuiz     Screen = "quiz"
	ScreenComplete Screen = "complete"
)

// View is everything a front-end needs to draw the current state. It holds
// no references into the session and can be kept after further events.
type View struct {
	Screen      Screen
	StepLabel   string
	Progress    float64
	PrevEnabled bool
	NextEnabled bool
	NextLabel   string

	Lesson  *LessonView
	Quiz    *QuizView
	Summary *Summary
}

type LessonView struct {
	Title   string
	Content string
}

type OptionView struct {
	Letter   string
	Text     string
	Mark     Mark
	Disabled bool
}

type QuizView struct {
	Title    string
	Heading  string // "Question 2 of 5"
	Number   int
	Total    int
	Score    int
	Question string
	Options  []OptionView

	CanSubmit    bool
	CanAdvance   bool
	AdvanceLabel string
	AutoAdvance  bool
	Feedback     *Feedback
	Result       *ResultView
}

type ResultView struct {
	Score      int
	Total      int
	Percentage int
	Class      string
	Message    string
	Line       string // "2 / 3 (67%)"
}

// Summary closes the course. Score grades every finished quiz together and
// is only set when Scored.
type Summary struct {
	TotalItems int
	Lessons    int
	Quizzes    int
	Scored     bool
	Score      ResultView
}

// Render projects items, navigation and the active quiz into a View. quiz is
// only read when the current item is a quiz, card only on completion.
func Render(items []Item, nav NavState, quiz QuizState, mode AdvanceMode, card Scorecard) View {
	v := View{
		StepLabel:   nav.StepLabel(),
		Progress:    nav.Progress(),
		PrevEnabled: nav.CanGoBack(),
		NextEnabled: !nav.Completed,
		NextLabel:   nav.NextLabel(),
	}

	if nav.Completed {
		lessons, quizzes := CountKinds(items)
		v.Screen = ScreenComplete
		v.Summary = &Summary{TotalItems: len(items), Lessons: lessons, Quizzes: quizzes}
		if r, ok := card.Overall(); ok {
			v.Summary.Scored = true
			v.Summary.Score = resultView(r)
		}
		return v
	}
	if nav.Step < 0 || nav.Step >= len(items) {
		return v
	}

	item := items[nav.Step]
	if item.Kind == LessonItem {
		v.Screen = ScreenLesson
		v.Lesson = &LessonView{Title: item.Title, Content: item.Content}
		return v
	}
	v.Screen = ScreenQuiz
	v.Quiz = renderQuiz(quiz, mode)
	return v
}

func renderQuiz(s QuizState, mode AdvanceMode) *QuizView {
	qv := &QuizView{
		Title: s.Title,
		Total: len(s.Questions),
		Score: s.Score,
	}
	if s.Phase == Finished {
		rv := resultView(s.Result())
		qv.Result = &rv
		return qv
	}

	q, _ := s.Question()
	qv.Number = s.Current + 1
	qv.Heading = fmt.Sprintf("Question %d of %d", qv.Number, qv.Total)
	qv.Question = q.Question

	marks := s.Marks()
	locked := s.Phase == ShowingFeedback
	qv.Options = make([]OptionView, len(q.Options))
	for i, text := range q.Options {
		qv.Options[i] = OptionView{
			Letter:   OptionLetter(i),
			Text:     text,
			Mark:     marks[i],
			Disabled: locked,
		}
	}

	qv.CanSubmit = s.Phase == AwaitingSubmit
	if fb, ok := s.Feedback(); ok {
		qv.Feedback = &fb
		qv.CanAdvance = true
		qv.AutoAdvance = mode.Timed
		qv.AdvanceLabel = "Next Question"
		if s.IsLastQuestion() {
			qv.AdvanceLabel = "Finish Quiz"
		}
	}
	return qv
}

func resultView(r Result) ResultView {
	return ResultView{
		Score:      r.Score,
		Total:      r.Total,
		Percentage: r.Percentage,
		Class:      r.Tier.Class(),
		Message:    r.Tier.Message(),
		Line:       fmt.Sprintf("%d / %d (%d%%)", r.Score, r.Total, r.Percentage),
	}
}
