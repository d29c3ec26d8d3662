package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dmitrijs2005/storebox/internal/common"
	"github.com/dmitrijs2005/storebox/internal/server/auth"
	"github.com/dmitrijs2005/storebox/internal/server/models"
)

type ctxKey int

const userContextKey ctxKey = iota

// userFromContext returns the authenticated user placed there by the
// authenticate middleware, or nil.
func userFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userContextKey).(*models.User)
	return u
}

// newUserCache keeps resolved users for a short while so each request does
// not cost a database round trip. Entries expire well before a token does.
func newUserCache() *expirable.LRU[string, *models.User] {
	return expirable.NewLRU[string, *models.User](1024, nil, time.Minute)
}

// authenticate resolves the Bearer token into a user and stores it in the
// request context. Requests without a valid token get a 401 and never reach
// the handler.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, common.ErrUnauthenticated)
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.secretKey)
		if err != nil {
			writeError(w, err)
			return
		}

		user, ok := s.userCache.Get(userID)
		if !ok {
			user, err = s.users.GetUserByID(r.Context(), userID)
			if err != nil {
				// a token for a vanished user is just an invalid token
				writeError(w, common.ErrUnauthenticated)
				return
			}
			s.userCache.Add(userID, user)
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests emits one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}
