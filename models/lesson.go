package models

import "time"

type Lesson struct {
	ID      int64     `json:"id" yaml:"-"`
	Title   string    `json:"title" yaml:"title"`
	Content string    `json:"content" yaml:"content"`
	Created time.Time `json:"created" yaml:"-"`
}

type CreateLessonRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type LessonResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Lesson  Lesson `json:"lesson"`
}
