package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// userIDKey is the context key for the verified user ID.
type userIDKey struct{}

// userIDFrom extracts the verified user ID stored by requireAuth.
func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey{}).(int64)
	return id
}

// authedFunc is a handler that runs only after bearer-token verification.
// The userID is the token's verified subject, never anything the client
// supplied in the path or body.
type authedFunc func(w http.ResponseWriter, r *http.Request, userID int64)

// requireAuth verifies the Authorization bearer token and passes the
// verified user ID to next. Absent, malformed, expired, and
// signature-invalid tokens all produce 401.
func (h *Handler) requireAuth(next authedFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := h.tokens.Verify(bearerToken(r))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		ctx = zctx.With(ctx, zap.Int64("user_id", userID))
		next(w, r.WithContext(ctx), userID)
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header; it returns "" when the header is absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return header[len(prefix):]
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is the body returned by both register and login.
type sessionResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "all fields required")
		return
	}

	u, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, sessionResponse{
		Token:    token,
		UserID:   u.ID,
		Username: u.Username,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{
		Token:    token,
		UserID:   u.ID,
		Username: u.Username,
	})
}
