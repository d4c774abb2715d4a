package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
	"github.com/cs-24-sw-8-04/scheduling/internal/infra/metrics"
)

// authHeader carries the bearer token on every authenticated request.
const authHeader = "X-Auth-Token"

type contextKey int

const accountIDKey contextKey = iota

// authenticate resolves the X-Auth-Token header to an account and stores it
// on the request context. Missing, malformed and unknown tokens are all 401.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(authHeader)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "auth token missing")
			return
		}
		token, err := domain.ParseAuthToken(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "auth token invalid")
			return
		}
		accountID, err := s.store.AccountIDForToken(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "auth token not recognized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountIDKey, accountID)))
	})
}

// accountID returns the authenticated account stored by the middleware.
func accountID(r *http.Request) domain.AccountID {
	return r.Context().Value(accountIDKey).(domain.AccountID)
}

// countRequests feeds the per-route Prometheus request counter.
func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		metrics.ObserveRequest(r.Method, r.URL.Path, ww.Status())
	})
}
