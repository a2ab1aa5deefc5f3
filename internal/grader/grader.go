package grader

import "strings"

// Grader decides whether a user's answer matches the expected one.
// Implementations must be deterministic; a scored attempt is stored forever.
type Grader interface {
	Grade(userAnswer, correctAnswer string) bool
}

// ExactMatch accepts an answer only if it equals the correct answer after
// trimming leading and trailing whitespace. Case, punctuation and inner
// whitespace are significant.
type ExactMatch struct{}

func (ExactMatch) Grade(userAnswer, correctAnswer string) bool {
	return strings.TrimSpace(userAnswer) == strings.TrimSpace(correctAnswer)
}
