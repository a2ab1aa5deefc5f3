package api

import (
	"net/http"

	"github.com/testsdaw/backend/internal/domain/attempt"
	"github.com/testsdaw/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type AnswerRequest struct {
	QuestionID int64  `json:"questionId" validate:"required,gt=0"`
	UserAnswer string `json:"userAnswer" validate:"required"`
}

type SubmitAttemptRequest struct {
	SubjectCode string          `json:"subjectCode" validate:"required"`
	TopicNumber *int            `json:"topicNumber" validate:"omitempty,gt=0"`
	Answers     []AnswerRequest `json:"answers" validate:"required,min=1,max=100,dive"`
}

type ResultResponse struct {
	QuestionID    int64  `json:"questionId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
}

type SubmitAttemptResponse struct {
	Score   int              `json:"score"`
	Correct int              `json:"correct"`
	Total   int              `json:"total"`
	Results []ResultResponse `json:"results"`
}

type TopicStatsResponse struct {
	SubjectCode   string `json:"subjectCode"`
	TopicNumber   *int   `json:"topicNumber"`
	TotalAttempts int    `json:"totalAttempts"`
	AvgScore      int    `json:"avgScore"`
}

type StatsResponse struct {
	Stats                []TopicStatsResponse `json:"stats"`
	TotalFailedQuestions int                  `json:"totalFailedQuestions"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// submitAttempt godoc
// @Summary      Submit answers for scoring
// @Description  Scores the answers against the stored answer keys, stores the attempt and marks failed questions.
// @Description  This is the only endpoint that returns correct answers.
// @Tags         Attempts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      SubmitAttemptRequest  true  "Answers (1-100)"
// @Success      200   {object}  SubmitAttemptResponse
// @Failure      400   {object}  ErrorResponse  "validation failed or unknown question"
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/attempts [post]
func (h *Handler) submitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req SubmitAttemptRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	answers := make([]attempt.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = attempt.Answer{QuestionID: a.QuestionID, UserAnswer: a.UserAnswer}
	}

	res, err := h.scoring.Submit(r.Context(), service.SubmitRequest{
		UserID:      userID,
		SubjectCode: req.SubjectCode,
		TopicNumber: req.TopicNumber,
		Answers:     answers,
	})
	if h.handleError(w, r, err) {
		return
	}

	results := make([]ResultResponse, len(res.Results))
	for i, qr := range res.Results {
		results[i] = ResultResponse{
			QuestionID:    qr.QuestionID,
			UserAnswer:    qr.UserAnswer,
			CorrectAnswer: qr.CorrectAnswer,
			Correct:       qr.Correct,
			Explanation:   qr.Explanation,
		}
	}

	h.logger.Info("attempt scored",
		"attempt_id", res.AttemptID,
		"user_id", userID,
		"score", res.Score,
		"request_id", RequestID(r.Context()),
	)
	respondJSON(w, http.StatusOK, SubmitAttemptResponse{
		Score:   res.Score,
		Correct: res.Correct,
		Total:   res.Total,
		Results: results,
	})
}

// getStats godoc
// @Summary      Per-topic statistics of the caller
// @Tags         Attempts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  StatsResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/attempts/stats [get]
func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	us, err := h.stats.Stats(r.Context(), userID)
	if h.handleError(w, r, err) {
		return
	}

	resp := StatsResponse{
		Stats:                make([]TopicStatsResponse, len(us.Stats)),
		TotalFailedQuestions: us.TotalFailedQuestions,
	}
	for i, st := range us.Stats {
		resp.Stats[i] = TopicStatsResponse{
			SubjectCode:   st.SubjectCode,
			TopicNumber:   st.TopicNumber,
			TotalAttempts: st.TotalAttempts,
			AvgScore:      st.AvgScore,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
