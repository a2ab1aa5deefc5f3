package question

import "fmt"

// Filter describes which catalog questions are eligible for a selection.
// Build it with NewFilter so the per-mode rules are applied.
type Filter struct {
	SubjectCode string
	TopicNumber *int // only set for ModeByTopic
	Mode        Mode
	UserID      int64 // owner of the failed marks for ModeFailedOnly
}

// NewFilter validates and normalizes a selection filter.
//
// ModeByTopic requires a positive topic number. ModeFullModule and
// ModeFailedOnly drop any topic number that was supplied.
func NewFilter(subjectCode string, topicNumber *int, mode Mode, userID int64) (Filter, error) {
	code := NormalizeSubject(subjectCode)
	if code == "" {
		return Filter{}, fmt.Errorf("%w: subjectCode is required", ErrInvalidFilter)
	}
	mode, err := ParseMode(string(mode))
	if err != nil {
		return Filter{}, err
	}

	f := Filter{SubjectCode: code, Mode: mode, UserID: userID}
	if mode == ModeByTopic {
		if topicNumber == nil || *topicNumber <= 0 {
			return Filter{}, fmt.Errorf("%w: type=%s needs a positive topicNumber", ErrInvalidFilter, ModeByTopic)
		}
		n := *topicNumber
		f.TopicNumber = &n
	}
	return f, nil
}
