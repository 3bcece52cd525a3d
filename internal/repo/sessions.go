package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blog/internal/apperr"
	"blog/internal/db"
	"blog/internal/models"
)

// SessionRepo persists cookie sessions. Create replaces any previous
// sessions of the user; Get treats an expired session as not found.
type SessionRepo interface {
	Create(ctx context.Context, userID int64, lifetime time.Duration) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID int64) error
}

type sessionRepo struct {
	db *sqlx.DB
}

func NewSessionRepo(d *sqlx.DB) SessionRepo { return &sessionRepo{db: d} }

const (
	sqlInsertSession = `
		INSERT INTO sessions (id, user_id, expires_at)
		VALUES ($1, $2, $3)`

	sqlSessionByID = `
		SELECT id, user_id, expires_at, created_at
		FROM sessions WHERE id = $1`

	sqlDeleteSession        = `DELETE FROM sessions WHERE id = $1`
	sqlDeleteSessionsByUser = `DELETE FROM sessions WHERE user_id = $1`
)

func (r *sessionRepo) Create(ctx context.Context, userID int64, lifetime time.Duration) (*models.Session, error) {
	s := models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(lifetime),
	}

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, sqlDeleteSessionsByUser, userID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, sqlInsertSession, s.ID, s.UserID, s.ExpiresAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	if err := r.db.GetContext(ctx, &s, sqlSessionByID, id); err != nil {
		return nil, translateErr(err, "session")
	}
	if time.Now().After(s.ExpiresAt) {
		return nil, apperr.New(apperr.NotFound, "session not found")
	}
	return &s, nil
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, sqlDeleteSession, id)
	return err
}

func (r *sessionRepo) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, sqlDeleteSessionsByUser, userID)
	return err
}
