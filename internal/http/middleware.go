package httpx

import (
	"net/http"
	"strings"
	"time"

	"blog/internal/apperr"
	"blog/internal/auth"
)

const CookieName = "session_id"

// withSession resolves the session cookie to a user id. An invalid or
// expired session just means an anonymous request.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
			if sess, err := s.Sessions.Get(r.Context(), c.Value); err == nil {
				r = r.WithContext(auth.WithUserID(r.Context(), sess.UserID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserIDFrom(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withBearer resolves an Authorization: Bearer token to a user id. Absence
// or failure leaves the request anonymous; endpoints that need an identity
// check via mustUser.
func (s *Server) withBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			claims, err := s.Tokens.Verify(strings.TrimPrefix(h, "Bearer "), auth.PurposeAPI)
			if err == nil {
				r = r.WithContext(auth.WithUserID(r.Context(), claims.UserID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func mustUser(r *http.Request) (int64, error) {
	uid, ok := auth.UserIDFrom(r.Context())
	if !ok {
		return 0, apperr.New(apperr.Auth, "authentication required")
	}
	return uid, nil
}

type statusRW struct {
	http.ResponseWriter
	status int
}

func (w *statusRW) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusRW{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.Log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.Log.Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Msg("panic recovered")
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
