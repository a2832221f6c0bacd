package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	msgLessonRequired   = "Title and content are required"
	msgQuestionRequired = "Question, options, and correct answer are required"
	msgOptionCount      = "Exactly 4 options are required"
	msgCorrectRange     = "Correct answer must be an integer between 0 and 3"
	msgOptionContent    = "All options must have content"
	msgLoginRequired    = "Username and password are required"
)

// questionBindMessage turns a ShouldBindJSON failure on a question body into
// the message for the first rule broken, checking presence, then option
// count, then the answer index, then option content.
func questionBindMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "correct" {
		return msgCorrectRange
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return msgQuestionRequired
	}

	var count, rng, content bool
	for _, fe := range verrs {
		switch {
		case strings.HasPrefix(fe.Field(), "Options["):
			content = true
		case fe.Tag() == "required":
			return msgQuestionRequired
		case fe.Field() == "Options" && fe.Tag() == "len":
			count = true
		case fe.Field() == "Correct":
			rng = true
		}
	}
	switch {
	case count:
		return msgOptionCount
	case rng:
		return msgCorrectRange
	case content:
		return msgOptionContent
	}
	return msgQuestionRequired
}
