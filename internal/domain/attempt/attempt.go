package attempt

import "time"

// Answer is one submitted (question, answer) pair.
type Answer struct {
	QuestionID int64
	UserAnswer string
}

// QuestionResult is the scoring snapshot of one answer. It keeps the correct
// answer and explanation as they were at scoring time so later catalog edits
// do not rewrite history.
type QuestionResult struct {
	QuestionID    int64  `json:"questionId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
}

// Attempt is one scored submission. It is written once and never mutated.
type Attempt struct {
	ID          int64
	UserID      int64
	SubjectCode string
	TopicNumber *int // nil = module-wide ("final") attempt
	Score       int
	Answers     []QuestionResult
	AnsweredAt  time.Time
}

// New builds an attempt from already graded results and computes its score.
func New(userID int64, subjectCode string, topicNumber *int, results []QuestionResult, answeredAt time.Time) *Attempt {
	a := &Attempt{
		UserID:      userID,
		SubjectCode: subjectCode,
		TopicNumber: topicNumber,
		Answers:     results,
		AnsweredAt:  answeredAt,
	}
	a.Score = Score(a.Correct(), a.Total())
	return a
}

// Correct counts the correct results.
func (a *Attempt) Correct() int {
	n := 0
	for _, r := range a.Answers {
		if r.Correct {
			n++
		}
	}
	return n
}

// Total is the number of submitted answers.
func (a *Attempt) Total() int {
	return len(a.Answers)
}

// FailedQuestionIDs lists the questions answered incorrectly, in submission
// order, without repeats.
func (a *Attempt) FailedQuestionIDs() []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, r := range a.Answers {
		if r.Correct || seen[r.QuestionID] {
			continue
		}
		seen[r.QuestionID] = true
		ids = append(ids, r.QuestionID)
	}
	return ids
}

// Score returns round(100 * correct / total), rounding halves up.
// A zero total scores 0.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}
