package question

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilter is returned when a selection filter cannot be satisfied
// as given, e.g. a by-topic selection without a topic number.
var ErrInvalidFilter = errors.New("invalid question filter")

// Mode selects which questions of a subject are eligible for a test.
type Mode string

const (
	ModeByTopic    Mode = "tema"
	ModeFullModule Mode = "final"
	ModeFailedOnly Mode = "failed"
)

// ParseMode maps the wire value of a test type to a Mode.
// An empty value selects the whole subject.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeFullModule:
		return ModeFullModule, nil
	case ModeByTopic, ModeFailedOnly:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: unknown type %q", ErrInvalidFilter, s)
}

// Question is the catalog entry as stored, answer key included.
// It must never leave the process before an attempt has been scored;
// use Public for anything handed to a test-taking client.
type Question struct {
	ID            int64
	SubjectCode   string
	SubjectName   string
	TopicNumber   *int // nil = module-wide
	TopicTitle    string
	Text          string
	Options       []string
	CorrectAnswer string
	Explanation   string
	FailedCount   int
}

// PublicQuestion is a Question without its answer key.
type PublicQuestion struct {
	ID          int64
	SubjectCode string
	SubjectName string
	TopicNumber *int
	TopicTitle  string
	Text        string
	Options     []string
	Explanation string
	FailedCount int
}

// Public returns the redacted view of q.
func (q Question) Public() PublicQuestion {
	options := make([]string, len(q.Options))
	copy(options, q.Options)
	return PublicQuestion{
		ID:          q.ID,
		SubjectCode: q.SubjectCode,
		SubjectName: q.SubjectName,
		TopicNumber: q.TopicNumber,
		TopicTitle:  q.TopicTitle,
		Text:        q.Text,
		Options:     options,
		Explanation: q.Explanation,
		FailedCount: q.FailedCount,
	}
}

// HasOption reports whether answer is one of the question's options.
func (q Question) HasOption(answer string) bool {
	for _, o := range q.Options {
		if o == answer {
			return true
		}
	}
	return false
}

// NormalizeSubject upper-cases a subject code so that "dwec" and "DWEC"
// address the same records.
func NormalizeSubject(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Subject summarises one subject of the catalog.
type Subject struct {
	Code          string
	Name          string
	QuestionCount int
}

// Topic summarises one topic of a subject.
type Topic struct {
	Number        *int
	Title         string
	QuestionCount int
}
