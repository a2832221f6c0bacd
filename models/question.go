package models

import "time"

// OptionCount is the fixed number of choices on every question.
const OptionCount = 4

type Question struct {
	ID       int64     `json:"id" yaml:"-"`
	Question string    `json:"question" yaml:"question"`
	Options  []string  `json:"options" yaml:"options"`
	Correct  int       `json:"correct" yaml:"correct"`
	Created  time.Time `json:"created" yaml:"-"`
}

// CreateQuestionRequest keeps Correct as a pointer so a missing value can be
// told apart from index 0.
type CreateQuestionRequest struct {
	Question string   `json:"question" binding:"required"`
	Options  []string `json:"options" binding:"required,len=4,dive,required"`
	Correct  *int     `json:"correct" binding:"required,min=0,max=3"`
}

type QuestionResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Question Question `json:"question"`
}
