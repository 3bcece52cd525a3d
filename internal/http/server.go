// Package httpx serves both surfaces of the application: the templated web
// pages (cookie-session identity) and the JSON API mirror under /api/v1
// (bearer-token identity).
package httpx

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"blog/internal/app"
	"blog/internal/auth"
	"blog/internal/mail"
	"blog/internal/repo"
	"blog/internal/util"
)

type Server struct {
	Cfg      app.Config
	Log      zerolog.Logger
	Render   *util.Renderer
	Users    repo.UserRepo
	Posts    repo.PostRepo
	Comments repo.CommentRepo
	Sessions repo.SessionRepo
	Tokens   *auth.Tokens
	Mailer   mail.Mailer

	mux     *http.ServeMux
	handler http.Handler
}

func NewServer(d *sqlx.DB, cfg app.Config, log zerolog.Logger, mailer mail.Mailer) *Server {
	s := &Server{
		Cfg:      cfg,
		Log:      log,
		Render:   util.NewRenderer(cfg.TemplatesDir),
		Users:    repo.NewUserRepo(d),
		Posts:    repo.NewPostRepo(d),
		Comments: repo.NewCommentRepo(d),
		Sessions: repo.NewSessionRepo(d),
		Tokens:   auth.NewTokens(cfg.SecretKey),
		Mailer:   mailer,
		mux:      http.NewServeMux(),
	}
	s.routes()
	s.handler = s.withRecover(s.withAccessLog(s.mux))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.handler.ServeHTTP(w, r) }

func (s *Server) routes() {
	m := s.mux

	web := func(h http.HandlerFunc) http.Handler { return s.withSession(h) }
	authed := func(h http.HandlerFunc) http.Handler { return s.withSession(s.requireUser(h)) }

	// templated pages
	m.Handle("GET /{$}", web(s.handleHome))
	m.Handle("GET /about", web(s.handleAbout))
	m.Handle("GET /thank_you", web(s.handleThankYou))
	m.Handle("/register", web(s.handleRegister))
	m.Handle("/confirm_email/{token}", web(s.handleConfirmEmail))
	m.Handle("/login", web(s.handleLogin))
	m.Handle("GET /logout", web(s.handleLogout))
	m.Handle("/account", authed(s.handleAccount))
	m.Handle("/account/delete", authed(s.handleAccountDelete))
	m.Handle("GET /user/{username}", web(s.handleUserPosts))
	m.Handle("/reset_password", web(s.handleResetRequest))
	m.Handle("/reset_password/{token}", web(s.handleResetToken))

	m.Handle("GET /post/new", authed(s.handlePostNew))
	m.Handle("POST /post/new", authed(s.handlePostNew))
	m.Handle("GET /post/{id}", web(s.handlePost))
	m.Handle("/post/{id}/update", authed(s.handlePostUpdate))
	m.Handle("POST /post/{id}/delete", authed(s.handlePostDelete))
	m.Handle("/post/{id}/comment", authed(s.handleCommentCreate))
	m.Handle("/post/{id}/comment/{commentID}", authed(s.handleCommentDelete))

	// JSON API
	api := func(h http.HandlerFunc) http.Handler { return s.withBearer(h) }

	m.Handle("GET /api/v1/status", api(s.handleAPIStatus))
	m.Handle("GET /api/v1/all_post", api(s.handleAPIAllPosts))
	m.Handle("POST /api/v1/login", api(s.handleAPILogin))
	m.Handle("GET /api/v1/posts", api(s.handleAPIPosts))
	m.Handle("/api/v1/posts/{id}", api(s.handleAPIPost))
	m.Handle("/api/v1/posts/{id}/comments", api(s.handleAPIPostComments))
	m.Handle("/api/v1/posts/{id}/comments/{commentID}", api(s.handleAPICommentDelete))
	m.Handle("/api/v1/users", api(s.handleAPIUsers))
	m.Handle("/api/v1/users/{id}", api(s.handleAPIUser))
	m.Handle("/api/v1/users/{id}/posts", api(s.handleAPIUserPosts))
}
