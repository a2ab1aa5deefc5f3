package api

import "net/http"

type RankingEntryResponse struct {
	Position   int    `json:"position"`
	Name       string `json:"name"`
	TotalTests int    `json:"totalTests"`
}

// getRanking godoc
// @Summary      Leaderboard
// @Description  Top 100 users by number of submitted tests.
// @Tags         Ranking
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   RankingEntryResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/ranking [get]
func (h *Handler) getRanking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	entries, err := h.stats.Ranking(r.Context(), userID)
	if h.handleError(w, r, err) {
		return
	}

	resp := make([]RankingEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = RankingEntryResponse{
			Position:   e.Position,
			Name:       e.Name,
			TotalTests: e.TotalTests,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
