package api

import "net/http"

// ── Request / Response types ────────────────────────────────────────────────

type SubjectResponse struct {
	SubjectCode   string `json:"subjectCode"`
	SubjectName   string `json:"subjectName"`
	QuestionCount int    `json:"questionCount"`
}

type TopicResponse struct {
	TopicNumber   *int   `json:"topicNumber"`
	TopicTitle    string `json:"topicTitle"`
	QuestionCount int    `json:"questionCount"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listSubjects godoc
// @Summary      List subjects
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   SubjectResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/subjects [get]
func (h *Handler) listSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.catalog.Subjects(r.Context())
	if h.handleError(w, r, err) {
		return
	}

	resp := make([]SubjectResponse, len(subjects))
	for i, s := range subjects {
		resp[i] = SubjectResponse{
			SubjectCode:   s.Code,
			SubjectName:   s.Name,
			QuestionCount: s.QuestionCount,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// listTopics godoc
// @Summary      List the topics of a subject
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Param        subjectCode  path      string  true  "Subject code (case-insensitive)"
// @Success      200          {array}   TopicResponse
// @Failure      401          {object}  ErrorResponse
// @Failure      500          {object}  ErrorResponse
// @Router       /api/subjects/{subjectCode}/topics [get]
func (h *Handler) listTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.catalog.Topics(r.Context(), r.PathValue("subjectCode"))
	if h.handleError(w, r, err) {
		return
	}

	resp := make([]TopicResponse, len(topics))
	for i, t := range topics {
		resp[i] = TopicResponse{
			TopicNumber:   t.Number,
			TopicTitle:    t.Title,
			QuestionCount: t.QuestionCount,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
