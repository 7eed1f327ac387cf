package handler

import (
	"net/http"
	"strconv"
)

// userResponse is a user row without the password hash.
type userResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// getUser returns the authenticated user's own row. The path ID is checked
// against the token's subject: a token for user A never reads user B.
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, userID int64) {
	pathID, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil || pathID != userID {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, userResponse{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
	})
}
