package httpx

import (
	"net/http"
	"net/url"
	"strings"

	"blog/internal/apperr"
	"blog/internal/auth"
	"blog/internal/models"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFrom(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if r.Method == http.MethodGet {
		s.Render.Render(w, http.StatusOK, "register.html", &pageData{
			Title: "Register",
			Error: r.URL.Query().Get("err"),
			Form: map[string]string{
				"Email":    r.URL.Query().Get("email"),
				"Username": r.URL.Query().Get("username"),
			},
		})
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	back := func(msg string) {
		http.Redirect(w, r, "/register?err="+url.QueryEscape(msg)+
			"&email="+url.QueryEscape(email)+
			"&username="+url.QueryEscape(username), http.StatusSeeOther)
	}

	if email == "" || username == "" || password == "" {
		back("All fields are required")
		return
	}
	if len(password) < 6 {
		back("Password must be at least 6 characters")
		return
	}
	if password != r.FormValue("confirm_password") {
		back("Passwords do not match")
		return
	}
	if _, err := s.Users.GetByEmail(r.Context(), email); err == nil {
		back("Email already taken")
		return
	}
	if _, err := s.Users.GetByUsername(r.Context(), username); err == nil {
		back("Username already taken")
		return
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	// The user record is not created yet. The pending registration rides
	// inside the confirmation token and is redeemed by handleConfirmEmail.
	token, err := s.Tokens.Issue(auth.PurposeConfirm, auth.Claims{
		Fields: map[string]string{
			"username":      username,
			"email":         email,
			"password_hash": digest,
		},
	}, s.Cfg.TokenTTL)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	if err := s.Mailer.SendConfirmation(email, s.Cfg.BaseURL+"/confirm_email/"+token); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/thank_you", http.StatusSeeOther)
}

func (s *Server) handleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	claims, err := s.Tokens.Verify(r.PathValue("token"), auth.PurposeConfirm)
	if err != nil {
		http.Redirect(w, r, "/register?err="+url.QueryEscape("That is an invalid or expired token"), http.StatusSeeOther)
		return
	}

	_, err = s.Users.Create(r.Context(), models.CreateUserParams{
		Username:     claims.Fields["username"],
		Email:        claims.Fields["email"],
		PasswordHash: claims.Fields["password_hash"],
		IsVerified:   true,
	})
	if err != nil {
		// A second click on the same link lands here; the account exists.
		if apperr.Is(err, apperr.Conflict) {
			http.Redirect(w, r, "/login?ok=1", http.StatusSeeOther)
			return
		}
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/login?ok=1", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFrom(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if r.Method == http.MethodGet {
		data := &pageData{
			Title: "Login",
			Error: r.URL.Query().Get("err"),
			Form:  map[string]string{"Email": r.URL.Query().Get("email")},
		}
		if r.URL.Query().Get("ok") == "1" {
			data.Flash = "Your account is ready, you can now log in"
			data.FlashOK = true
		}
		s.Render.Render(w, http.StatusOK, "login.html", data)
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")

	user, err := s.Users.GetByEmail(r.Context(), email)
	if err != nil || !user.IsVerified || !auth.CheckPassword(password, user.PasswordHash) {
		s.Log.Warn().Str("email", email).Msg("login failed")
		http.Redirect(w, r, "/login?err="+url.QueryEscape("Invalid email or password")+
			"&email="+url.QueryEscape(email), http.StatusSeeOther)
		return
	}

	sess, err := s.Sessions.Create(r.Context(), user.ID, s.Cfg.SessionLifetime)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieName); err == nil {
		_ = s.Sessions.Delete(r.Context(), c.Value)
		c.MaxAge = -1
		c.Path = "/"
		http.SetCookie(w, c)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFrom(r.Context())

	if r.Method == http.MethodGet {
		user, err := s.Users.GetByID(r.Context(), uid)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		data := &pageData{
			Title: "Account",
			User:  user,
			Error: r.URL.Query().Get("err"),
		}
		if r.URL.Query().Get("ok") == "1" {
			data.Flash = "Your account has been updated"
			data.FlashOK = true
		}
		s.fillUserMeta(r.Context(), data)
		s.Render.Render(w, http.StatusOK, "account.html", data)
		return
	}

	params := models.UpdateUserParams{ID: uid}
	if v := strings.TrimSpace(r.FormValue("username")); v != "" {
		params.Username = &v
	}
	if v := strings.TrimSpace(strings.ToLower(r.FormValue("email"))); v != "" {
		params.Email = &v
	}
	if v := strings.TrimSpace(r.FormValue("image_file")); v != "" {
		params.ImageFile = &v
	}
	if v := r.FormValue("password"); v != "" {
		digest, err := auth.HashPassword(v)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		params.PasswordHash = &digest
	}

	if _, err := s.Users.Update(r.Context(), params); err != nil {
		if apperr.Is(err, apperr.Conflict) {
			http.Redirect(w, r, "/account?err="+url.QueryEscape(apperr.Message(err)), http.StatusSeeOther)
			return
		}
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/account?ok=1", http.StatusSeeOther)
}

func (s *Server) handleAccountDelete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFrom(r.Context())

	if r.Method == http.MethodGet {
		data := &pageData{Title: "Delete account"}
		s.fillUserMeta(r.Context(), data)
		s.Render.Render(w, http.StatusOK, "account_delete.html", data)
		return
	}

	if err := s.Users.Delete(r.Context(), uid); err != nil {
		s.renderError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	user, err := s.Users.GetByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	posts, meta, err := s.Posts.ListByUser(r.Context(), user.ID, pageFrom(r))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	data := &pageData{Title: user.Username, User: user, Posts: posts, Meta: meta}
	s.fillUserMeta(r.Context(), data)
	s.Render.Render(w, http.StatusOK, "user_posts.html", data)
}

func (s *Server) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFrom(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if r.Method == http.MethodGet {
		s.Render.Render(w, http.StatusOK, "reset_request.html", &pageData{
			Title: "Reset Password",
			Error: r.URL.Query().Get("err"),
		})
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))

	// The response never reveals whether the email exists.
	if user, err := s.Users.GetByEmail(r.Context(), email); err == nil {
		token, err := s.Tokens.Issue(auth.PurposeReset, auth.Claims{UserID: user.ID}, s.Cfg.TokenTTL)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		if err := s.Mailer.SendReset(email, s.Cfg.BaseURL+"/reset_password/"+token); err != nil {
			s.renderError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, "/thank_you", http.StatusSeeOther)
}

func (s *Server) handleResetToken(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	claims, err := s.Tokens.Verify(token, auth.PurposeReset)
	if err != nil {
		http.Redirect(w, r, "/reset_password?err="+url.QueryEscape("That is an invalid or expired token"), http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		s.Render.Render(w, http.StatusOK, "reset_token.html", &pageData{
			Title: "Reset Password",
			Token: token,
			Error: r.URL.Query().Get("err"),
		})
		return
	}

	password := r.FormValue("password")
	if len(password) < 6 {
		http.Redirect(w, r, "/reset_password/"+token+"?err="+url.QueryEscape("Password must be at least 6 characters"), http.StatusSeeOther)
		return
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if _, err := s.Users.Update(r.Context(), models.UpdateUserParams{
		ID:           claims.UserID,
		PasswordHash: &digest,
	}); err != nil {
		s.renderError(w, r, err)
		return
	}

	// Old sessions stop working once the password changes.
	_ = s.Sessions.DeleteByUser(r.Context(), claims.UserID)

	http.Redirect(w, r, "/login?ok=1", http.StatusSeeOther)
}
