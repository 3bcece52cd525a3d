package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"blog/internal/apperr"
	"blog/internal/auth"
	"blog/internal/models"
	"blog/internal/repo"
)

// ---- JSON surface ----

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) apiError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		s.Log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": apperr.Message(err)})
}

// readJSON decodes a mutating request body. A missing application/json
// Content-Type or a malformed body are both the same 400.
func readJSON(r *http.Request, dst any) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return apperr.New(apperr.Validation, "invalid JSON")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.New(apperr.Validation, "invalid JSON")
	}
	return nil
}

func pathID(r *http.Request, name, resource string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.NotFound, "%s not found", resource)
	}
	return id, nil
}

func pageFrom(r *http.Request) repo.Page {
	q := r.URL.Query()
	return repo.PageFromQuery(q.Get("page"), q.Get("per_page"))
}

// ---- templated surface ----

type pageData struct {
	Title    string
	Flash    string
	FlashOK  bool
	UserID   int64
	Username string
	User     *models.User
	Post     *models.Post
	Posts    []models.Post
	Comments []models.Comment
	Meta     repo.Meta
	Error    string
	Form     map[string]string
	Token    string
	Legend   string
	Status   int
	Message  string
}

func (s *Server) fillUserMeta(ctx context.Context, data *pageData) {
	if uid, ok := auth.UserIDFrom(ctx); ok {
		data.UserID = uid
		if u, err := s.Users.GetByID(ctx, uid); err == nil {
			data.Username = u.Username
		}
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		s.Log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	data := &pageData{Title: "Error", Status: status, Message: apperr.Message(err)}
	s.fillUserMeta(r.Context(), data)
	s.Render.Render(w, status, "error.html", data)
}
