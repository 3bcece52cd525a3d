package repo

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"blog/internal/apperr"
	"blog/internal/models"
)

func postRows(posts ...models.Post) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "content", "created_at", "author"})
	for _, p := range posts {
		rows.AddRow(p.ID, p.UserID, p.Title, p.Content, p.CreatedAt, p.Author)
	}
	return rows
}

func TestPostRepoCreate(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewPostRepo(d)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO posts`)).
		WithArgs(int64(1), "First", "Hello").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "content", "created_at"}).
			AddRow(int64(10), int64(1), "First", "Hello", time.Now()))

	p, err := r.Create(context.Background(), models.CreatePostParams{
		UserID: 1, Title: "First", Content: "Hello",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID != 10 || p.Title != "First" {
		t.Fatalf("post = %+v", p)
	}
}

func TestPostRepoGetByIDJoinsAuthor(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewPostRepo(d)

	mock.ExpectQuery(regexp.QuoteMeta(`JOIN users u ON u.id = p.user_id`)).
		WithArgs(int64(10)).
		WillReturnRows(postRows(models.Post{ID: 10, UserID: 1, Title: "First", Author: "alice"}))

	p, err := r.GetByID(context.Background(), 10)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Author != "alice" {
		t.Fatalf("author = %q", p.Author)
	}
}

func TestPostRepoGetByIDNotFound(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewPostRepo(d)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
		WithArgs(int64(99)).
		WillReturnRows(postRows())

	_, err := r.GetByID(context.Background(), 99)
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if apperr.Message(err) != "post not found" {
		t.Fatalf("message = %q", apperr.Message(err))
	}
}

func TestPostRepoListNewestFirst(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewPostRepo(d)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM posts`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY p.created_at DESC, p.id DESC`)).
		WithArgs(5, 0).
		WillReturnRows(postRows(
			models.Post{ID: 2, Title: "Newer", Author: "alice"},
			models.Post{ID: 1, Title: "Older", Author: "alice"},
		))

	posts, meta, err := r.List(context.Background(), Page{Number: 1, Size: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 2 || posts[0].Title != "Newer" {
		t.Fatalf("posts = %+v", posts)
	}
	if meta.TotalItems != 2 || meta.TotalPages != 1 {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestPostRepoListByUser(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewPostRepo(d)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM posts WHERE user_id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.user_id = $1`)).
		WithArgs(int64(1), 5, 0).
		WillReturnRows(postRows(models.Post{ID: 1, UserID: 1, Title: "Mine", Author: "alice"}))

	posts, meta, err := r.ListByUser(context.Background(), 1, Page{Number: 1, Size: 5})
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "Mine" {
		t.Fatalf("posts = %+v", posts)
	}
	if meta.TotalItems != 1 {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestPostRepoUpdatePartial(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewPostRepo(d)

	title := "Renamed"
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE posts SET title = $1 WHERE id = $2`)).
		WithArgs(title, int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "content", "created_at"}).
			AddRow(int64(10), int64(1), title, "Hello", time.Now()))

	p, err := r.Update(context.Background(), models.UpdatePostParams{ID: 10, Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Title != title {
		t.Fatalf("title = %q", p.Title)
	}
}

// Deleting a post removes its comments first, inside one transaction.
func TestPostRepoDeleteCascade(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewPostRepo(d)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM comments WHERE post_id = $1`)).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM posts WHERE id = $1`)).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := r.Delete(context.Background(), 10); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostRepoDeleteMissing(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewPostRepo(d)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM comments WHERE post_id = $1`)).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM posts WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := r.Delete(context.Background(), 99)
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
