package httpx

import (
	"net/http"

	"blog/internal/apperr"
	"blog/internal/models"
)

func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleAPIAllPosts(w http.ResponseWriter, r *http.Request) {
	n, err := s.Posts.Count(r.Context())
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"all_posts": n})
}

func (s *Server) handleAPIPosts(w http.ResponseWriter, r *http.Request) {
	posts, meta, err := s.Posts.List(r.Context(), pageFrom(r))
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts, "meta": meta})
}

func (s *Server) handleAPIPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "post")
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		post, err := s.Posts.GetByID(r.Context(), id)
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, post)

	case http.MethodPut, http.MethodPatch:
		uid, err := mustUser(r)
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		post, err := s.Posts.GetByID(r.Context(), id)
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		if post.UserID != uid {
			s.apiError(w, r, apperr.New(apperr.Forbidden, "unauthorized access"))
			return
		}

		var req struct {
			Title   *string `json:"title"`
			Content *string `json:"content"`
		}
		if err := readJSON(r, &req); err != nil {
			s.apiError(w, r, err)
			return
		}

		updated, err := s.Posts.Update(r.Context(), models.UpdatePostParams{
			ID:      id,
			Title:   req.Title,
			Content: req.Content,
		})
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		uid, err := mustUser(r)
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		post, err := s.Posts.GetByID(r.Context(), id)
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		if post.UserID != uid {
			s.apiError(w, r, apperr.New(apperr.Forbidden, "unauthorized access"))
			return
		}
		if err := s.Posts.Delete(r.Context(), id); err != nil {
			s.apiError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{})

	default:
		s.apiError(w, r, apperr.New(apperr.Validation, "method not allowed"))
	}
}
