package api

import (
	"net/http"

	"github.com/testsdaw/backend/internal/domain/question"
	"github.com/testsdaw/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

// QuestionQuery holds the query parameters shared by listQuestions and
// countQuestions.
type QuestionQuery struct {
	SubjectCode string `query:"subjectCode" validate:"required"`
	TopicNumber *int   `query:"topicNumber" validate:"omitempty,gt=0"`
	Type        string `query:"type" validate:"omitempty,oneof=tema final failed"`
	Limit       *int   `query:"limit" validate:"omitempty,min=1,max=100"`
}

// QuestionResponse is a question as handed out for a test. It has no
// correct answer field.
type QuestionResponse struct {
	ID          int64    `json:"id"`
	SubjectCode string   `json:"subjectCode"`
	SubjectName string   `json:"subjectName"`
	TopicNumber *int     `json:"topicNumber"`
	TopicTitle  string   `json:"topicTitle"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Explanation string   `json:"explanation"`
	FailedCount int      `json:"failedCount"`
}

type CountResponse struct {
	Count       int    `json:"count"`
	SubjectCode string `json:"subjectCode"`
	TopicNumber *int   `json:"topicNumber"`
	Type        string `json:"type"`
}

func toQuestionResponse(q question.PublicQuestion) QuestionResponse {
	return QuestionResponse{
		ID:          q.ID,
		SubjectCode: q.SubjectCode,
		SubjectName: q.SubjectName,
		TopicNumber: q.TopicNumber,
		TopicTitle:  q.TopicTitle,
		Text:        q.Text,
		Options:     q.Options,
		Explanation: q.Explanation,
		FailedCount: q.FailedCount,
	}
}

// parseQuestionQuery reads and validates the query string. On failure it
// writes a 400 and returns false.
func parseQuestionQuery(w http.ResponseWriter, r *http.Request) (QuestionQuery, bool) {
	q := QuestionQuery{
		SubjectCode: r.URL.Query().Get("subjectCode"),
		Type:        r.URL.Query().Get("type"),
	}
	var ok bool
	if q.TopicNumber, ok = queryInt(w, r, "topicNumber"); !ok {
		return q, false
	}
	if q.Limit, ok = queryInt(w, r, "limit"); !ok {
		return q, false
	}
	return q, validateRequest(w, q)
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listQuestions godoc
// @Summary      Select questions for a test
// @Description  Returns up to limit questions in random order, without their correct answers.
// @Description  type=tema needs topicNumber; type=failed returns the caller's previously failed questions;
// @Description  no type returns questions from the whole subject.
// @Tags         Questions
// @Produce      json
// @Security     BearerAuth
// @Param        subjectCode  query     string  true   "Subject code (case-insensitive)"
// @Param        topicNumber  query     int     false  "Topic number"
// @Param        type         query     string  false  "Selection mode"  Enums(tema, final, failed)
// @Param        limit        query     int     false  "Maximum number of questions (1-100, default 20)"
// @Success      200          {array}   QuestionResponse
// @Failure      400          {object}  ErrorResponse
// @Failure      401          {object}  ErrorResponse
// @Failure      500          {object}  ErrorResponse
// @Router       /api/questions [get]
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	q, ok := parseQuestionQuery(w, r)
	if !ok {
		return
	}

	limit := service.DefaultLimit
	if q.Limit != nil {
		limit = *q.Limit
	}

	questions, err := h.selection.Select(r.Context(), service.SelectRequest{
		UserID:      userID,
		SubjectCode: q.SubjectCode,
		TopicNumber: q.TopicNumber,
		Mode:        question.Mode(q.Type),
		Limit:       limit,
	})
	if h.handleError(w, r, err) {
		return
	}

	resp := make([]QuestionResponse, len(questions))
	for i, pq := range questions {
		resp[i] = toQuestionResponse(pq)
	}
	respondJSON(w, http.StatusOK, resp)
}

// countQuestions godoc
// @Summary      Count eligible questions
// @Description  Applies the same filter as the selection endpoint without limiting.
// @Tags         Questions
// @Produce      json
// @Security     BearerAuth
// @Param        subjectCode  query     string  true   "Subject code (case-insensitive)"
// @Param        topicNumber  query     int     false  "Topic number"
// @Param        type         query     string  false  "Selection mode"  Enums(tema, final, failed)
// @Success      200          {object}  CountResponse
// @Failure      400          {object}  ErrorResponse
// @Failure      401          {object}  ErrorResponse
// @Failure      500          {object}  ErrorResponse
// @Router       /api/questions/count [get]
func (h *Handler) countQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	q, ok := parseQuestionQuery(w, r)
	if !ok {
		return
	}

	res, err := h.selection.Count(r.Context(), service.SelectRequest{
		UserID:      userID,
		SubjectCode: q.SubjectCode,
		TopicNumber: q.TopicNumber,
		Mode:        question.Mode(q.Type),
	})
	if h.handleError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, CountResponse{
		Count:       res.Count,
		SubjectCode: res.SubjectCode,
		TopicNumber: res.TopicNumber,
		Type:        res.Type,
	})
}
