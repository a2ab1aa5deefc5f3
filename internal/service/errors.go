package service

import (
	"errors"
	"fmt"

	"github.com/testsdaw/backend/internal/domain/question"
)

var (
	// ErrUnauthenticated is returned when an operation is invoked without a
	// verified user id.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrInvalidFilter = question.ErrInvalidFilter

	// ErrInvalidSubmission covers malformed attempt submissions that slipped
	// past transport validation.
	ErrInvalidSubmission = errors.New("invalid submission")

	ErrUnknownQuestion    = errors.New("unknown question")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UnknownQuestionError names the question id a submission referenced that
// is absent from the catalog. It matches ErrUnknownQuestion with errors.Is.
type UnknownQuestionError struct {
	QuestionID int64
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("unknown question %d", e.QuestionID)
}

func (e *UnknownQuestionError) Is(target error) bool {
	return target == ErrUnknownQuestion
}
