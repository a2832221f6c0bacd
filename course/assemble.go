// Package course drives a learner through lessons and quizzes.
//
// The navigation and quiz state machines are pure values: every transition
// returns a new state and never mutates the receiver. Session wraps them for
// a single learner and adds loading, timed advancing and progress snapshots.
package course

import (
	"errors"

	"elearning_app/models"
)

// ErrContentUnavailable means loading produced nothing to show. It is fatal
// for a session; the learner has to reload.
var ErrContentUnavailable = errors.New("no content available")

type ItemKind string

const (
	LessonItem ItemKind = "lesson"
	QuizItem   ItemKind = "quiz"
)

// Item is one step of the course: a lesson, or a quiz over a slice of the
// question list.
type Item struct {
	Kind      ItemKind
	LessonID  int64
	Title     string
	Content   string
	Questions []models.Question
}

// Assemble interleaves lessons with quizzes. Each lesson is followed by the
// next ceil(len(questions)/len(lessons)) questions; a lesson whose share is
// empty gets no quiz.
func Assemble(lessons []models.Lesson, questions []models.Question) ([]Item, error) {
	if len(lessons) == 0 {
		return nil, ErrContentUnavailable
	}

	perQuiz := 0
	if len(questions) > 0 {
		perQuiz = (len(questions) + len(lessons) - 1) / len(lessons)
	}

	items := make([]Item, 0, 2*len(lessons))
	for i, lesson := range lessons {
		items = append(items, Item{
			Kind:     LessonItem,
			LessonID: lesson.ID,
			Title:    lesson.Title,
			Content:  lesson.Content,
		})
		if perQuiz == 0 {
			continue
		}
		start := i * perQuiz
		if start >= len(questions) {
			continue
		}
		end := min(start+perQuiz, len(questions))
		items = append(items, Item{
			Kind:      QuizItem,
			LessonID:  lesson.ID,
			Title:     "Quiz: " + lesson.Title,
			Questions: questions[start:end:end],
		})
	}
	return items, nil
}

// CountKinds reports how many lessons and quizzes items holds.
func CountKinds(items []Item) (lessons, quizzes int) {
	for _, it := range items {
		switch it.Kind {
		case LessonItem:
			lessons++
		case QuizItem:
			quizzes++
		}
	}
	return lessons, quizzes
}
