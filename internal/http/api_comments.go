package httpx

import (
	"net/http"

	"blog/internal/apperr"
	"blog/internal/models"
)

func (s *Server) handleAPIPostComments(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id", "post")
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	if _, err := s.Posts.GetByID(r.Context(), postID); err != nil {
		s.apiError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		comments, meta, err := s.Comments.ListByPost(r.Context(), postID, pageFrom(r))
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"post_comments": comments, "meta": meta})

	case http.MethodPost:
		uid, err := mustUser(r)
		if err != nil {
			s.apiError(w, r, err)
			return
		}

		var req struct {
			Content string `json:"content"`
		}
		if err := readJSON(r, &req); err != nil {
			s.apiError(w, r, err)
			return
		}
		if req.Content == "" {
			s.apiError(w, r, apperr.New(apperr.Validation, "missing required field"))
			return
		}

		comment, err := s.Comments.Create(r.Context(), models.CreateCommentParams{
			PostID:  postID,
			UserID:  uid,
			Content: req.Content,
		})
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, comment)

	default:
		s.apiError(w, r, apperr.New(apperr.Validation, "method not allowed"))
	}
}

func (s *Server) handleAPICommentDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.apiError(w, r, apperr.New(apperr.Validation, "method not allowed"))
		return
	}

	postID, err := pathID(r, "id", "post")
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	commentID, err := pathID(r, "commentID", "comment")
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	uid, err := mustUser(r)
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	comment, err := s.Comments.GetByPost(r.Context(), postID, commentID)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	if comment.UserID != uid {
		s.apiError(w, r, apperr.New(apperr.Forbidden, "unauthorized access"))
		return
	}

	if err := s.Comments.Delete(r.Context(), postID, commentID); err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}
