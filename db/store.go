package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"elearning_app/models"
)

// ErrNotFound is returned by deletes that match no row.
var ErrNotFound = errors.New("record not found")

// Store runs single-statement reads, inserts and deletes over lessons and
// questions. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) ListLessons(ctx context.Context) ([]models.Lesson, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, title, content, created
        FROM lessons
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("error fetching lessons: %w", err)
	}
	defer rows.Close()

	lessons := make([]models.Lesson, 0)
	for rows.Next() {
		var lesson models.Lesson
		var created dbTime
		if err := rows.Scan(&lesson.ID, &lesson.Title, &lesson.Content, &created); err != nil {
			return nil, fmt.Errorf("error scanning lesson: %w", err)
		}
		if created.Valid {
			lesson.Created = created.Time
		}
		lessons = append(lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading lessons: %w", err)
	}
	return lessons, nil
}

func (s *Store) ListQuestions(ctx context.Context) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, question, options, correct, created
        FROM questions
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	defer rows.Close()

	questions := make([]models.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading questions: %w", err)
	}
	return questions, nil
}

// CreateLesson inserts a lesson. Inputs are expected to be validated already.
func (s *Store) CreateLesson(ctx context.Context, title, content string) (models.Lesson, error) {
	lesson := models.Lesson{Title: title, Content: content, Created: s.timestamp()}
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO lessons (title, content, created)
        VALUES ($1, $2, $3)
        RETURNING id
    `, title, content, lesson.Created).Scan(&lesson.ID)
	if err != nil {
		return models.Lesson{}, fmt.Errorf("error creating lesson: %w", err)
	}
	return lesson, nil
}

func (s *Store) DeleteLesson(ctx context.Context, id int64) (models.Lesson, error) {
	var lesson models.Lesson
	var created dbTime
	err := s.db.QueryRowContext(ctx, `
        DELETE FROM lessons
        WHERE id = $1
        RETURNING id, title, content, created
    `, id).Scan(&lesson.ID, &lesson.Title, &lesson.Content, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Lesson{}, ErrNotFound
	}
	if err != nil {
		return models.Lesson{}, fmt.Errorf("error deleting lesson: %w", err)
	}
	if created.Valid {
		lesson.Created = created.Time
	}
	return lesson, nil
}

// CreateQuestion inserts a question with its options stored as a JSON array.
func (s *Store) CreateQuestion(ctx context.Context, text string, options []string, correct int) (models.Question, error) {
	encoded, err := json.Marshal(options)
	if err != nil {
		return models.Question{}, fmt.Errorf("error encoding options: %w", err)
	}
	q := models.Question{
		Question: text,
		Options:  append([]string(nil), options...),
		Correct:  correct,
		Created:  s.timestamp(),
	}
	err = s.db.QueryRowContext(ctx, `
        INSERT INTO questions (question, options, correct, created)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, text, string(encoded), correct, q.Created).Scan(&q.ID)
	if err != nil {
		return models.Question{}, fmt.Errorf("error creating question: %w", err)
	}
	return q, nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id int64) (models.Question, error) {
	row := s.db.QueryRowContext(ctx, `
        DELETE FROM questions
        WHERE id = $1
        RETURNING id, question, options, correct, created
    `, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, ErrNotFound
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("error deleting question: %w", err)
	}
	return q, nil
}

// CountLessons and CountQuestions are used by seeding.
func (s *Store) CountLessons(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM lessons`)
}

func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM questions`)
}

func (s *Store) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// timestamp is truncated to microseconds, the precision postgres keeps.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// dbTime scans timestamps from drivers that return time.Time (postgres) as
// well as text (sqlite, RETURNING columns without a declared type).
type dbTime struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func (t *dbTime) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = x, true
		return nil
	case string:
		return t.parse(x)
	case []byte:
		return t.parse(string(x))
	default:
		return fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed, true
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (models.Question, error) {
	var q models.Question
	var options []byte
	var created dbTime
	if err := row.Scan(&q.ID, &q.Question, &options, &q.Correct, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Question{}, err
		}
		return models.Question{}, fmt.Errorf("error scanning question: %w", err)
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return models.Question{}, fmt.Errorf("error decoding options for question %d: %w", q.ID, err)
	}
	if created.Valid {
		q.Created = created.Time
	}
	return q, nil
}
