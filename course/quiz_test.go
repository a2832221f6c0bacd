package course

import (
	"errors"
	"testing"
)

// mustQuiz wraps a transition that is expected to succeed:
// mustQuiz(t)(s.Select(0)).
func mustQuiz(t *testing.T) func(QuizState, error) QuizState {
	return func(s QuizState, err error) QuizState {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return s
	}
}

func answer(t *testing.T, s QuizState, option int) QuizState {
	t.Helper()
	s = mustQuiz(t)(s.Select(option))
	return mustQuiz(t)(s.Submit())
}

func TestQuizSubmitWithoutSelection(t *testing.T) {
	s := NewQuiz("Quiz: Lesson 1", testQuestions(2))
	got, err := s.Submit()
	if !errors.Is(err, ErrNoSelection) {
		t.Fatalf("err = %v, want ErrNoSelection", err)
	}
	if got.Phase != AwaitingSelection || got.Score != 0 || len(got.Attempts) != 0 {
		t.Fatalf("state changed on rejected submit: %+v", got)
	}
}

func TestQuizSelectReplacesChoice(t *testing.T) {
	s := NewQuiz("q", testQuestions(1))
	s = mustQuiz(t)(s.Select(2))
	s = mustQuiz(t)(s.Select(0))
	if s.Selected != 0 || s.Phase != AwaitingSubmit {
		t.Fatalf("Selected = %d phase = %s", s.Selected, s.Phase)
	}
	marks := s.Marks()
	if marks[0] != MarkSelected || marks[2] != MarkNone {
		t.Fatalf("marks = %v", marks)
	}
	if _, err := s.Select(4); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("Select(4) err = %v", err)
	}
	if _, err := s.Select(-1); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("Select(-1) err = %v", err)
	}
}

func TestQuizCorrectAnswer(t *testing.T) {
	s := answer(t, NewQuiz("q", testQuestions(2)), 0)
	if !s.LastCorrect || s.Score != 1 || s.Phase != ShowingFeedback {
		t.Fatalf("state = %+v", s)
	}
	fb, ok := s.Feedback()
	if !ok || fb.Heading != "Correct!" || fb.Detail != "Well done!" {
		t.Fatalf("feedback = %+v ok=%v", fb, ok)
	}
	marks := s.Marks()
	if marks[0] != MarkCorrect {
		t.Fatalf("marks = %v", marks)
	}
	for _, m := range marks[1:] {
		if m != MarkNone {
			t.Fatalf("marks = %v", marks)
		}
	}
}

func TestQuizIncorrectAnswer(t *testing.T) {
	qs := testQuestions(2)
	s := mustQuiz(t)(NewQuiz("q", qs).Select(0))
	s = mustQuiz(t)(s.Submit())
	s = mustQuiz(t)(s.Advance())

	// Question 2 has correct index 1.
	s = answer(t, s, 3)
	if s.LastCorrect || s.Score != 1 {
		t.Fatalf("state = %+v", s)
	}
	fb, _ := s.Feedback()
	if fb.Heading != "Incorrect" || fb.Detail != "The correct answer is: B. second" {
		t.Fatalf("feedback = %+v", fb)
	}
	marks := s.Marks()
	if marks[1] != MarkCorrect || marks[3] != MarkIncorrect || marks[0] != MarkNone {
		t.Fatalf("marks = %v", marks)
	}
	if s.Answers[1] != 3 || s.Attempts[1] != 1 {
		t.Fatalf("answers = %v attempts = %v", s.Answers, s.Attempts)
	}
}

func TestQuizInputLockedDuringFeedback(t *testing.T) {
	s := answer(t, NewQuiz("q", testQuestions(2)), 1)
	if _, err := s.Select(0); !errors.Is(err, ErrInputLocked) {
		t.Fatalf("Select err = %v", err)
	}
	if _, err := s.Submit(); !errors.Is(err, ErrInputLocked) {
		t.Fatalf("Submit err = %v", err)
	}
	if _, err := NewQuiz("q", testQuestions(2)).Advance(); !errors.Is(err, ErrNotAnswered) {
		t.Fatalf("Advance err = %v", err)
	}
}

func TestQuizFullRun(t *testing.T) {
	s := NewQuiz("Quiz: Lesson 1", testQuestions(3))
	s = answer(t, s, 0)
	s = mustQuiz(t)(s.Advance())
	if s.Selected != NoSelection || s.Current != 1 || s.Phase != AwaitingSelection {
		t.Fatalf("after advance: %+v", s)
	}
	s = answer(t, s, 1)
	s = mustQuiz(t)(s.Advance())
	s = answer(t, s, 0)
	if !s.IsLastQuestion() {
		t.Fatal("expected last question")
	}
	s = mustQuiz(t)(s.Advance())
	if s.Phase != Finished {
		t.Fatalf("phase = %s", s.Phase)
	}

	r := s.Result()
	if r.Score != 2 || r.Total != 3 || r.Percentage != 67 || r.Tier != TierFair {
		t.Fatalf("result = %+v", r)
	}
	if r.Tier.Class() != "score-fair" || r.Tier.Message() != "Fair performance. Consider reviewing the material." {
		t.Fatalf("tier = %q %q", r.Tier.Class(), r.Tier.Message())
	}
	if _, err := s.Select(0); !errors.Is(err, ErrQuizFinished) {
		t.Fatalf("Select after finish err = %v", err)
	}
	if _, ok := s.Question(); ok {
		t.Fatal("finished quiz still has a question")
	}
}

func TestQuizRetake(t *testing.T) {
	qs := testQuestions(2)
	s := answer(t, NewQuiz("q", qs), 0)
	s = mustQuiz(t)(s.Advance())
	s = answer(t, s, 1)
	s = mustQuiz(t)(s.Advance())

	r := s.Retake()
	if r.Current != 0 || r.Score != 0 || r.Phase != AwaitingSelection || r.Selected != NoSelection {
		t.Fatalf("retake = %+v", r)
	}
	if len(r.Answers) != 0 || len(r.Attempts) != 0 {
		t.Fatalf("retake kept answers %v attempts %v", r.Answers, r.Attempts)
	}
	if len(r.Questions) != len(qs) || r.Title != "q" {
		t.Fatalf("retake changed questions: %+v", r)
	}
}

func TestQuizTransitionsDoNotShareMaps(t *testing.T) {
	before := mustQuiz(t)(NewQuiz("q", testQuestions(2)).Select(0))
	after := mustQuiz(t)(before.Submit())
	if len(before.Answers) != 0 || len(before.Attempts) != 0 {
		t.Fatalf("earlier state mutated: %v %v", before.Answers, before.Attempts)
	}
	if after.Answers[0] != 0 || after.Attempts[0] != 1 {
		t.Fatalf("after = %v %v", after.Answers, after.Attempts)
	}
}

func TestEmptyQuizIsFinished(t *testing.T) {
	s := NewQuiz("q", nil)
	if s.Phase != Finished {
		t.Fatalf("phase = %s", s.Phase)
	}
	if r := s.Result(); r.Percentage != 0 || r.Total != 0 {
		t.Fatalf("result = %+v", r)
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		pct  int
		want Tier
	}{
		{100, TierExcellent},
		{90, TierExcellent},
		{89, TierGood},
		{70, TierGood},
		{69, TierFair},
		{50, TierFair},
		{49, TierPoor},
		{0, TierPoor},
	}
	for _, tt := range tests {
		if got := TierFor(tt.pct); got != tt.want {
			t.Errorf("TierFor(%d) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}
