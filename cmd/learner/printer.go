package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"elearning_app/course"
)

var errHelp = errors.New("help")

// printer serializes output from the input loop and timed advances.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) View(v course.View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	writeView(p.w, v)
}

func (p *printer) Line(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, s)
}

func (p *printer) Help() {
	p.Line("Commands: n next, p previous, home, end, a-d choose, s submit, r retake/start over, quit")
}

func (p *printer) Error(err error) {
	if errors.Is(err, errHelp) {
		p.Help()
		return
	}
	msg := err.Error()
	if errors.Is(err, course.ErrNoSelection) {
		msg = "Please select an answer before submitting."
	}
	p.Line("! " + msg)
}

func writeView(w io.Writer, v course.View) {
	fmt.Fprintln(w)
	switch v.Screen {
	case course.ScreenComplete:
		s := v.Summary
		fmt.Fprintln(w, "Congratulations!")
		fmt.Fprintln(w, "You have successfully completed the course!")
		fmt.Fprintln(w, "Course Summary:")
		fmt.Fprintf(w, "  Total Content Items: %d\n", s.TotalItems)
		fmt.Fprintf(w, "  Lessons Completed: %d\n", s.Lessons)
		fmt.Fprintf(w, "  Quizzes Completed: %d\n", s.Quizzes)
		if s.Scored {
			fmt.Fprintf(w, "  Overall Score: %s [%s]\n", s.Score.Line, s.Score.Class)
			fmt.Fprintf(w, "  %s\n", s.Score.Message)
		}
		fmt.Fprintln(w, "[r] Start Over")
		return
	case course.ScreenLesson:
		fmt.Fprintf(w, "%s  %s\n", v.StepLabel, progressBar(v.Progress))
		fmt.Fprintln(w, v.Lesson.Title)
		fmt.Fprintln(w, strings.Repeat("=", len(v.Lesson.Title)))
		fmt.Fprintln(w, v.Lesson.Content)
	case course.ScreenQuiz:
		fmt.Fprintf(w, "%s  %s\n", v.StepLabel, progressBar(v.Progress))
		writeQuiz(w, v.Quiz)
		if v.Quiz.CanAdvance || v.Quiz.Result != nil {
			// n belongs to the quiz buttons here.
			return
		}
	}
	fmt.Fprintln(w, navLine(v))
}

func writeQuiz(w io.Writer, q *course.QuizView) {
	fmt.Fprintf(w, "%s  (score %d / %d)\n", q.Title, q.Score, q.Total)
	if r := q.Result; r != nil {
		fmt.Fprintln(w, "Quiz Complete!")
		fmt.Fprintf(w, "%s [%s]\n", r.Line, r.Class)
		fmt.Fprintln(w, r.Message)
		fmt.Fprintln(w, "[n] Continue Learning  [r] Retake")
		return
	}

	fmt.Fprintln(w, q.Heading)
	fmt.Fprintln(w, q.Question)
	for _, o := range q.Options {
		fmt.Fprintf(w, "  %s %s. %s\n", optionMarker(o.Mark), o.Letter, o.Text)
	}
	if fb := q.Feedback; fb != nil {
		fmt.Fprintf(w, "%s %s\n", fb.Heading, fb.Detail)
		if q.AutoAdvance {
			fmt.Fprintln(w, "(continuing shortly)")
		} else {
			fmt.Fprintf(w, "[n] %s\n", q.AdvanceLabel)
		}
		return
	}
	if q.CanSubmit {
		fmt.Fprintln(w, "[s] Submit Answer")
	}
}

func optionMarker(m course.Mark) string {
	switch m {
	case course.MarkSelected:
		return "(*)"
	case course.MarkCorrect:
		return "(+)"
	case course.MarkIncorrect:
		return "(x)"
	default:
		return "( )"
	}
}

func navLine(v course.View) string {
	parts := make([]string, 0, 2)
	if v.PrevEnabled {
		parts = append(parts, "[p] Previous")
	}
	if v.NextEnabled {
		parts = append(parts, "[n] "+v.NextLabel)
	}
	return strings.Join(parts, "  ")
}

func progressBar(pct float64) string {
	const width = 20
	filled := int(pct / 100 * width)
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
