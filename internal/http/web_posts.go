package httpx

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"blog/internal/apperr"
	"blog/internal/auth"
	"blog/internal/models"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	posts, meta, err := s.Posts.List(r.Context(), pageFrom(r))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	data := &pageData{Title: "Blog", Posts: posts, Meta: meta}
	if r.URL.Query().Get("ok") == "1" {
		data.Flash = "Done!"
		data.FlashOK = true
	}
	if msg := r.URL.Query().Get("err"); msg != "" {
		data.Flash = msg
	}
	s.fillUserMeta(r.Context(), data)
	s.Render.Render(w, http.StatusOK, "home.html", data)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	data := &pageData{Title: "About"}
	s.fillUserMeta(r.Context(), data)
	s.Render.Render(w, http.StatusOK, "about.html", data)
}

func (s *Server) handleThankYou(w http.ResponseWriter, r *http.Request) {
	data := &pageData{Title: "Thank you"}
	s.fillUserMeta(r.Context(), data)
	s.Render.Render(w, http.StatusOK, "thank_you.html", data)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "post")
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	post, err := s.Posts.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	comments, meta, err := s.Comments.ListByPost(r.Context(), id, pageFrom(r))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	data := &pageData{Title: post.Title, Post: post, Comments: comments, Meta: meta}
	s.fillUserMeta(r.Context(), data)
	s.Render.Render(w, http.StatusOK, "post.html", data)
}

func (s *Server) handlePostNew(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFrom(r.Context())

	if r.Method == http.MethodGet {
		data := &pageData{
			Title:  "New Post",
			Legend: "New Post",
			Error:  r.URL.Query().Get("err"),
			Form:   map[string]string{},
		}
		s.fillUserMeta(r.Context(), data)
		s.Render.Render(w, http.StatusOK, "post_form.html", data)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))
	if title == "" || content == "" {
		http.Redirect(w, r, "/post/new?err="+url.QueryEscape("Title and content are required"), http.StatusSeeOther)
		return
	}

	post, err := s.Posts.Create(r.Context(), models.CreatePostParams{
		UserID:  uid,
		Title:   title,
		Content: content,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/post/%d", post.ID), http.StatusSeeOther)
}

func (s *Server) handlePostUpdate(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFrom(r.Context())

	id, err := pathID(r, "id", "post")
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	post, err := s.Posts.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if post.UserID != uid {
		s.renderError(w, r, apperr.New(apperr.Forbidden, "you cannot modify this post"))
		return
	}

	if r.Method == http.MethodGet {
		data := &pageData{
			Title:  post.Title,
			Legend: "Update Post",
			Post:   post,
			Error:  r.URL.Query().Get("err"),
			Form:   map[string]string{"Title": post.Title, "Content": post.Content},
		}
		s.fillUserMeta(r.Context(), data)
		s.Render.Render(w, http.StatusOK, "post_form.html", data)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))
	if title == "" || content == "" {
		http.Redirect(w, r, fmt.Sprintf("/post/%d/update?err=%s", id, url.QueryEscape("Title and content are required")), http.StatusSeeOther)
		return
	}

	if _, err := s.Posts.Update(r.Context(), models.UpdatePostParams{
		ID:      id,
		Title:   &title,
		Content: &content,
	}); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
}

func (s *Server) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFrom(r.Context())

	id, err := pathID(r, "id", "post")
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	post, err := s.Posts.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	// A delete attempt on someone else's post reads as not found.
	if post.UserID != uid {
		s.renderError(w, r, apperr.New(apperr.NotFound, "post not found"))
		return
	}

	if err := s.Posts.Delete(r.Context(), id); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/?ok=1", http.StatusSeeOther)
}

func (s *Server) handleCommentCreate(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFrom(r.Context())

	id, err := pathID(r, "id", "post")
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	post, err := s.Posts.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	if r.Method == http.MethodGet {
		data := &pageData{
			Title: post.Title,
			Post:  post,
			Error: r.URL.Query().Get("err"),
		}
		s.fillUserMeta(r.Context(), data)
		s.Render.Render(w, http.StatusOK, "add_comment.html", data)
		return
	}

	content := strings.TrimSpace(r.FormValue("content"))
	if content == "" {
		http.Redirect(w, r, fmt.Sprintf("/post/%d/comment?err=%s", id, url.QueryEscape("Comment content is required")), http.StatusSeeOther)
		return
	}

	if _, err := s.Comments.Create(r.Context(), models.CreateCommentParams{
		PostID:  id,
		UserID:  uid,
		Content: content,
	}); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
}

func (s *Server) handleCommentDelete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFrom(r.Context())

	postID, err := pathID(r, "id", "post")
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	commentID, err := pathID(r, "commentID", "comment")
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	comment, err := s.Comments.GetByPost(r.Context(), postID, commentID)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	// Same response whether the comment is missing or simply not yours.
	if comment.UserID != uid {
		s.renderError(w, r, apperr.New(apperr.NotFound, "comment not found"))
		return
	}

	if err := s.Comments.Delete(r.Context(), postID, commentID); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/post/%d", postID), http.StatusSeeOther)
}
