package repo

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"blog/internal/apperr"
)

// Creating a session drops any previous sessions of the user in the same
// transaction, so one session per user holds at all times.
func TestSessionRepoCreateReplacesPrevious(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewSessionRepo(d)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE user_id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO sessions`)).
		WithArgs(sqlmock.AnyArg(), int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s, err := r.Create(context.Background(), 1, 24*time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Fatalf("session id %q is not a uuid: %v", s.ID, err)
	}
	if s.UserID != 1 {
		t.Fatalf("session = %+v", s)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSessionRepoGetExpired(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewSessionRepo(d)

	id := uuid.New().String()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM sessions WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "created_at"}).
			AddRow(id, int64(1), time.Now().Add(-time.Minute), time.Now().Add(-25*time.Hour)))

	_, err := r.Get(context.Background(), id)
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("expected NotFound for expired session, got %v", err)
	}
}

func TestSessionRepoGetUnknown(t *testing.T) {
	d, mock := newMockDB(t)
	r := NewSessionRepo(d)

	id := uuid.New().String()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM sessions WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := r.Get(context.Background(), id)
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
