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

func commentRows(comments ...models.Comment) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "post_id", "user_id", "content", "created_at", "author"})
	for _, c := range comments {
		rows.AddRow(c.ID, c.PostID, c.UserID, c.Content, c.CreatedAt, c.Author)
	}
	return rows
}

func TestCommentRepoCreate(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewCommentRepo(d)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO comments`)).
		WithArgs(int64(10), int64(1), "Nice post").
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "content", "created_at"}).
			AddRow(int64(5), int64(10), int64(1), "Nice post", time.Now()))

	c, err := r.Create(context.Background(), models.CreateCommentParams{
		PostID: 10, UserID: 1, Content: "Nice post",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID != 5 || c.PostID != 10 {
		t.Fatalf("comment = %+v", c)
	}
}

// A comment id under the wrong post reads as not found.
func TestCommentRepoGetByPostScoped(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewCommentRepo(d)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE c.post_id = $1 AND c.id = $2`)).
		WithArgs(int64(11), int64(5)).
		WillReturnRows(commentRows())

	_, err := r.GetByPost(context.Background(), 11, 5)
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCommentRepoListByPostOldestFirst(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewCommentRepo(d)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM comments WHERE post_id = $1`)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY c.created_at ASC, c.id ASC`)).
		WithArgs(int64(10), 5, 0).
		WillReturnRows(commentRows(
			models.Comment{ID: 1, PostID: 10, Content: "First", Author: "alice"},
			models.Comment{ID: 2, PostID: 10, Content: "Second", Author: "bob"},
		))

	comments, meta, err := r.ListByPost(context.Background(), 10, Page{Number: 1, Size: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 2 || comments[0].Content != "First" {
		t.Fatalf("comments = %+v", comments)
	}
	if meta.TotalItems != 2 {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestCommentRepoDelete(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewCommentRepo(d)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM comments WHERE post_id = $1 AND id = $2`)).
		WithArgs(int64(10), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := r.Delete(context.Background(), 10, 5); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestCommentRepoDeleteMissing(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewCommentRepo(d)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM comments WHERE post_id = $1 AND id = $2`)).
		WithArgs(int64(10), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.Delete(context.Background(), 10, 99)
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
