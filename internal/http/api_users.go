package httpx

import (
	"net/http"

	"blog/internal/apperr"
	"blog/internal/auth"
	"blog/internal/models"
)

var errInvalidCredentials = apperr.New(apperr.Auth, "invalid email or password")

func (s *Server) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		s.apiError(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		s.apiError(w, r, apperr.New(apperr.Validation, "missing required fields"))
		return
	}

	user, err := s.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			err = errInvalidCredentials
		}
		s.apiError(w, r, err)
		return
	}
	if !user.IsVerified || !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.apiError(w, r, errInvalidCredentials)
		return
	}

	token, err := s.Tokens.Issue(auth.PurposeAPI, auth.Claims{UserID: user.ID}, s.Cfg.APITokenTTL)
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"jwt_token": token,
		"user_id":   user.ID,
	})
}

func (s *Server) handleAPIUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		users, meta, err := s.Users.List(r.Context(), pageFrom(r))
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": users, "meta": meta})

	case http.MethodPost:
		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := readJSON(r, &req); err != nil {
			s.apiError(w, r, err)
			return
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			s.apiError(w, r, apperr.New(apperr.Validation, "missing required fields"))
			return
		}

		digest, err := auth.HashPassword(req.Password)
		if err != nil {
			s.apiError(w, r, err)
			return
		}

		// API registrations are usable immediately; there is no
		// confirmation round-trip on this surface.
		user, err := s.Users.Create(r.Context(), models.CreateUserParams{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: digest,
			IsVerified:   true,
		})
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)

	default:
		s.apiError(w, r, apperr.New(apperr.Validation, "method not allowed"))
	}
}

func (s *Server) handleAPIUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := s.Users.GetByID(r.Context(), id)
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)

	case http.MethodPut, http.MethodPatch:
		uid, err := mustUser(r)
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		if uid != id {
			s.apiError(w, r, apperr.New(apperr.Forbidden, "unauthorized access"))
			return
		}

		var req struct {
			Username *string `json:"username"`
			Email    *string `json:"email"`
			Password *string `json:"password"`
		}
		if err := readJSON(r, &req); err != nil {
			s.apiError(w, r, err)
			return
		}

		params := models.UpdateUserParams{ID: id, Username: req.Username, Email: req.Email}
		if req.Password != nil {
			digest, err := auth.HashPassword(*req.Password)
			if err != nil {
				s.apiError(w, r, err)
				return
			}
			params.PasswordHash = &digest
		}

		user, err := s.Users.Update(r.Context(), params)
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)

	case http.MethodDelete:
		uid, err := mustUser(r)
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		if uid != id {
			s.apiError(w, r, apperr.New(apperr.Forbidden, "unauthorized access"))
			return
		}
		if err := s.Users.Delete(r.Context(), id); err != nil {
			s.apiError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{})

	default:
		s.apiError(w, r, apperr.New(apperr.Validation, "method not allowed"))
	}
}

func (s *Server) handleAPIUserPosts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	if _, err := s.Users.GetByID(r.Context(), id); err != nil {
		s.apiError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		posts, meta, err := s.Posts.ListByUser(r.Context(), id, pageFrom(r))
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"posts": posts, "meta": meta})

	case http.MethodPost:
		uid, err := mustUser(r)
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		if uid != id {
			s.apiError(w, r, apperr.New(apperr.Forbidden, "unauthorized access"))
			return
		}

		var req struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		}
		if err := readJSON(r, &req); err != nil {
			s.apiError(w, r, err)
			return
		}
		if req.Title == "" || req.Content == "" {
			s.apiError(w, r, apperr.New(apperr.Validation, "missing post title or contents"))
			return
		}

		post, err := s.Posts.Create(r.Context(), models.CreatePostParams{
			UserID:  id,
			Title:   req.Title,
			Content: req.Content,
		})
		if err != nil {
			s.apiError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, post)

	default:
		s.apiError(w, r, apperr.New(apperr.Validation, "method not allowed"))
	}
}
