package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"elearning_app/catalog"
)

type SeedResult struct {
	Lessons   int
	Questions int
}

// SeedData inserts the catalog content into whichever of the two tables is
// empty. Tables that already hold rows are left alone.
func SeedData(ctx context.Context, db *sql.DB, c catalog.Catalog) (SeedResult, error) {
	var res SeedResult
	store := NewStore(db)

	lessonCount, err := store.CountLessons(ctx)
	if err != nil {
		return res, fmt.Errorf("error counting lessons: %w", err)
	}
	questionCount, err := store.CountQuestions(ctx)
	if err != nil {
		return res, fmt.Errorf("error counting questions: %w", err)
	}
	if lessonCount > 0 && questionCount > 0 {
		return res, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if lessonCount == 0 {
		for _, lesson := range c.Lessons {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO lessons (title, content) VALUES ($1, $2)`,
				lesson.Title, lesson.Content,
			); err != nil {
				return SeedResult{}, fmt.Errorf("error seeding lessons: %w", err)
			}
			res.Lessons++
		}
	}

	if questionCount == 0 {
		for _, q := range c.Questions {
			options, err := json.Marshal(q.Options)
			if err != nil {
				return SeedResult{}, fmt.Errorf("error encoding options: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO questions (question, options, correct) VALUES ($1, $2, $3)`,
				q.Question, string(options), q.Correct,
			); err != nil {
				return SeedResult{}, fmt.Errorf("error seeding questions: %w", err)
			}
			res.Questions++
		}
	}

	if err := tx.Commit(); err != nil {
		return SeedResult{}, fmt.Errorf("error committing transaction: %w", err)
	}
	return res, nil
}
