package models

import "time"

type ContentResponse struct {
	Lessons   []Lesson   `json:"lessons"`
	Questions []Question `json:"questions"`
	Timestamp time.Time  `json:"timestamp"`
}

type DeleteResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted T      `json:"deleted"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}
