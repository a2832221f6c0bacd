package course

import (
	"errors"
	"fmt"
	"maps"
	"math"

	"elearning_app/models"
)

var (
	ErrNoSelection   = errors.New("please select an answer before submitting")
	ErrInvalidOption = errors.New("option index out of range")
	ErrInputLocked   = errors.New("answer already submitted for this question")
	ErrNotAnswered   = errors.New("current question has not been answered")
	ErrQuizFinished  = errors.New("quiz is finished")
)

// NoSelection is the Selected value when nothing is picked.
const NoSelection = -1

type Phase int

const (
	AwaitingSelection Phase = iota
	AwaitingSubmit
	ShowingFeedback
	Finished
)

func (p Phase) String() string {
	switch p {
	case AwaitingSelection:
		return "awaiting_selection"
	case AwaitingSubmit:
		return "awaiting_submit"
	case ShowingFeedback:
		return "showing_feedback"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

type Mark int

const (
	MarkNone Mark = iota
	MarkSelected
	MarkCorrect
	MarkIncorrect
)

func (m Mark) String() string {
	switch m {
	case MarkSelected:
		return "selected"
	case MarkCorrect:
		return "correct"
	case MarkIncorrect:
		return "incorrect"
	default:
		return ""
	}
}

// QuizState is one pass through a quiz. Answers and Attempts are keyed by
// question index and are copied on write, so older states stay valid.
type QuizState struct {
	Title       string
	Questions   []models.Question
	Current     int
	Phase       Phase
	Selected    int
	LastCorrect bool
	Score       int
	Answers     map[int]int
	Attempts    map[int]int
}

func NewQuiz(title string, questions []models.Question) QuizState {
	s := QuizState{
		Title:     title,
		Questions: questions,
		Selected:  NoSelection,
		Answers:   map[int]int{},
		Attempts:  map[int]int{},
	}
	if len(questions) == 0 {
		s.Phase = Finished
	}
	return s
}

// Question returns the question being asked, if any.
func (s QuizState) Question() (models.Question, bool) {
	if s.Phase == Finished || s.Current < 0 || s.Current >= len(s.Questions) {
		return models.Question{}, false
	}
	return s.Questions[s.Current], true
}

func (s QuizState) IsLastQuestion() bool {
	return s.Current == len(s.Questions)-1
}

// Select records a pending choice. Choosing again before submitting just
// replaces it.
func (s QuizState) Select(option int) (QuizState, error) {
	switch s.Phase {
	case ShowingFeedback:
		return s, ErrInputLocked
	case Finished:
		return s, ErrQuizFinished
	}
	q, _ := s.Question()
	if option < 0 || option >= len(q.Options) {
		return s, ErrInvalidOption
	}
	s.Selected = option
	s.Phase = AwaitingSubmit
	return s, nil
}

// Submit grades the pending choice and locks the question.
func (s QuizState) Submit() (QuizState, error) {
	switch s.Phase {
	case AwaitingSelection:
		return s, ErrNoSelection
	case ShowingFeedback:
		return s, ErrInputLocked
	case Finished:
		return s, ErrQuizFinished
	}
	q, _ := s.Question()

	s.LastCorrect = s.Selected == q.Correct
	if s.LastCorrect {
		s.Score++
	}
	s.Answers = maps.Clone(s.Answers)
	s.Attempts = maps.Clone(s.Attempts)
	s.Answers[s.Current] = s.Selected
	s.Attempts[s.Current]++
	s.Phase = ShowingFeedback
	return s, nil
}

// Advance moves past the feedback to the next question, or finishes the
// quiz after the last one.
func (s QuizState) Advance() (QuizState, error) {
	switch s.Phase {
	case AwaitingSelection, AwaitingSubmit:
		return s, ErrNotAnswered
	case Finished:
		return s, ErrQuizFinished
	}
	s.Selected = NoSelection
	s.LastCorrect = false
	if s.IsLastQuestion() {
		s.Phase = Finished
		return s, nil
	}
	s.Current++
	s.Phase = AwaitingSelection
	return s, nil
}

// Retake starts over with the same questions.
func (s QuizState) Retake() QuizState {
	return NewQuiz(s.Title, s.Questions)
}

// Marks reports how each option of the current question should be shown.
func (s QuizState) Marks() []Mark {
	q, ok := s.Question()
	if !ok {
		return nil
	}
	marks := make([]Mark, len(q.Options))
	switch s.Phase {
	case AwaitingSubmit:
		if s.Selected >= 0 && s.Selected < len(marks) {
			marks[s.Selected] = MarkSelected
		}
	case ShowingFeedback:
		if q.Correct >= 0 && q.Correct < len(marks) {
			marks[q.Correct] = MarkCorrect
		}
		if !s.LastCorrect && s.Selected >= 0 && s.Selected < len(marks) {
			marks[s.Selected] = MarkIncorrect
		}
	}
	return marks
}

type Feedback struct {
	Correct bool
	Heading string
	Detail  string
}

// Feedback is the explanation shown after a submit.
func (s QuizState) Feedback() (Feedback, bool) {
	if s.Phase != ShowingFeedback {
		return Feedback{}, false
	}
	q, _ := s.Question()
	if s.LastCorrect {
		return Feedback{Correct: true, Heading: "Correct!", Detail: "Well done!"}, true
	}
	return Feedback{
		Heading: "Incorrect",
		Detail:  fmt.Sprintf("The correct answer is: %s. %s", OptionLetter(q.Correct), optionText(q, q.Correct)),
	}, true
}

// OptionLetter maps 0..3 to A..D.
func OptionLetter(i int) string {
	return string(rune('A' + i))
}

func optionText(q models.Question, i int) string {
	if i < 0 || i >= len(q.Options) {
		return ""
	}
	return q.Options[i]
}

type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierFair      Tier = "fair"
	TierPoor      Tier = "poor"
)

func TierFor(percentage int) Tier {
	switch {
	case percentage >= 90:
		return TierExcellent
	case percentage >= 70:
		return TierGood
	case percentage >= 50:
		return TierFair
	default:
		return TierPoor
	}
}

func (t Tier) Message() string {
	switch t {
	case TierExcellent:
		return "Excellent work! You have mastered this topic."
	case TierGood:
		return "Good job! You have a solid understanding."
	case TierFair:
		return "Fair performance. Consider reviewing the material."
	default:
		return "You may want to review the lesson material again."
	}
}

// Class is the style hook a renderer attaches to the final score.
func (t Tier) Class() string { return "score-" + string(t) }

type Result struct {
	Score      int
	Total      int
	Percentage int
	Tier       Tier
}

func (s QuizState) Result() Result {
	return NewResult(s.Score, len(s.Questions))
}

// NewResult grades score out of total, rounding the percentage.
func NewResult(score, total int) Result {
	pct := 0
	if total > 0 {
		pct = int(math.Round(100 * float64(score) / float64(total)))
	}
	return Result{Score: score, Total: total, Percentage: pct, Tier: TierFor(pct)}
}
