package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"elearning_app/apierr"
	"elearning_app/db"
	"elearning_app/logger"
	"elearning_app/models"
)

// ContentStore is the persistence collaborator behind the content API.
type ContentStore interface {
	ListLessons(ctx context.Context) ([]models.Lesson, error)
	ListQuestions(ctx context.Context) ([]models.Question, error)
	CreateLesson(ctx context.Context, title, content string) (models.Lesson, error)
	DeleteLesson(ctx context.Context, id int64) (models.Lesson, error)
	CreateQuestion(ctx context.Context, text string, options []string, correct int) (models.Question, error)
	DeleteQuestion(ctx context.Context, id int64) (models.Question, error)
}

type ContentService struct {
	store ContentStore
	log   *logger.Logger
	now   func() time.Time
}

func NewContentService(store ContentStore, log *logger.Logger) *ContentService {
	return &ContentService{
		store: store,
		log:   log.With("service", "ContentService"),
		now:   time.Now,
	}
}

// ListContent returns every lesson and question in id order. The two reads
// run concurrently and share nothing but the store.
func (s *ContentService) ListContent(ctx context.Context) (models.ContentResponse, error) {
	var lessons []models.Lesson
	var questions []models.Question

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lessons, err = s.store.ListLessons(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = s.store.ListQuestions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Error fetching content", "error", err)
		return models.ContentResponse{}, apierr.Store(err)
	}

	s.log.Info("Content requested", "lessons", len(lessons), "questions", len(questions))
	return models.ContentResponse{
		Lessons:   lessons,
		Questions: questions,
		Timestamp: s.now().UTC(),
	}, nil
}

// CreateLesson stores the trimmed lesson. Request shape is checked by the
// binding tags on models.CreateLessonRequest; only whitespace-only fields are
// caught here.
func (s *ContentService) CreateLesson(ctx context.Context, req models.CreateLessonRequest) (models.Lesson, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return models.Lesson{}, apierr.Validation("Title and content cannot be empty")
	}

	lesson, err := s.store.CreateLesson(ctx, title, content)
	if err != nil {
		s.log.Error("Error adding lesson", "error", err)
		return models.Lesson{}, apierr.Store(err)
	}
	s.log.Info("New lesson added", "lesson_id", lesson.ID, "title", lesson.Title)
	return lesson, nil
}

func (s *ContentService) DeleteLesson(ctx context.Context, id int64) (models.Lesson, error) {
	lesson, err := s.store.DeleteLesson(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return models.Lesson{}, apierr.NotFound("Lesson not found")
	}
	if err != nil {
		s.log.Error("Error deleting lesson", "lesson_id", id, "error", err)
		return models.Lesson{}, apierr.Store(err)
	}
	s.log.Info("Lesson deleted", "lesson_id", id, "title", lesson.Title)
	return lesson, nil
}

// CreateQuestion stores the trimmed question. Option count and the answer
// range come from the binding tags on models.CreateQuestionRequest; here only
// whitespace-only text is rejected.
func (s *ContentService) CreateQuestion(ctx context.Context, req models.CreateQuestionRequest) (models.Question, error) {
	text := strings.TrimSpace(req.Question)
	if text == "" || req.Correct == nil {
		return models.Question{}, apierr.Validation("Question, options, and correct answer are required")
	}
	correct := *req.Correct
	options := make([]string, len(req.Options))
	for i, opt := range req.Options {
		options[i] = strings.TrimSpace(opt)
		if options[i] == "" {
			return models.Question{}, apierr.Validation("All options must have content")
		}
	}

	q, err := s.store.CreateQuestion(ctx, text, options, correct)
	if err != nil {
		s.log.Error("Error adding question", "error", err)
		return models.Question{}, apierr.Store(err)
	}
	s.log.Info("New question added", "question_id", q.ID, "question", preview(q.Question))
	return q, nil
}

func (s *ContentService) DeleteQuestion(ctx context.Context, id int64) (models.Question, error) {
	q, err := s.store.DeleteQuestion(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return models.Question{}, apierr.NotFound("Question not found")
	}
	if err != nil {
		s.log.Error("Error deleting question", "question_id", id, "error", err)
		return models.Question{}, apierr.Store(err)
	}
	s.log.Info("Question deleted", "question_id", id, "question", preview(q.Question))
	return q, nil
}

func preview(s string) string {
	const max = 50
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
