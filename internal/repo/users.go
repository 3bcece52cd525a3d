package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"blog/internal/apperr"
	"blog/internal/db"
	"blog/internal/models"
)

// UserRepo is the persistence contract for users. Delete removes the
// user's posts, comments, and sessions in the same transaction as the user
// row; no orphaned foreign keys survive it.
type UserRepo interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, p Page) ([]models.User, Meta, error)
	Update(ctx context.Context, params models.UpdateUserParams) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type userRepo struct {
	db *sqlx.DB
}

func NewUserRepo(d *sqlx.DB) UserRepo { return &userRepo{db: d} }

const userCols = `id, username, email, password_hash, image_file, is_verified, created_at`

const (
	sqlInsertUser = `
		INSERT INTO users (username, email, password_hash, image_file, is_verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userCols

	sqlUserByID       = `SELECT ` + userCols + ` FROM users WHERE id = $1`
	sqlUserByUsername = `SELECT ` + userCols + ` FROM users WHERE username = $1`
	sqlUserByEmail    = `SELECT ` + userCols + ` FROM users WHERE email = $1`

	sqlListUsers = `SELECT ` + userCols + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`

	sqlCountUsers = `SELECT COUNT(*) FROM users`
)

func (r *userRepo) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	image := params.ImageFile
	if image == "" {
		image = "default.jpg"
	}

	var u models.User
	err := r.db.GetContext(ctx, &u, sqlInsertUser,
		params.Username, params.Email, params.PasswordHash, image, params.IsVerified)
	if err != nil {
		return nil, translateErr(err, "user")
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := r.db.GetContext(ctx, &u, sqlUserByID, id); err != nil {
		return nil, translateErr(err, "user")
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.db.GetContext(ctx, &u, sqlUserByUsername, username); err != nil {
		return nil, translateErr(err, "user")
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.GetContext(ctx, &u, sqlUserByEmail, email); err != nil {
		return nil, translateErr(err, "user")
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context, p Page) ([]models.User, Meta, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, Meta{}, err
	}

	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, sqlListUsers, p.Limit(), p.Offset()); err != nil {
		return nil, Meta{}, err
	}
	return users, MetaFor(p, total), nil
}

// Update applies only the non-nil fields of params.
func (r *userRepo) Update(ctx context.Context, params models.UpdateUserParams) (*models.User, error) {
	set := make([]string, 0, 5)
	args := make([]any, 0, 6)
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if params.Username != nil {
		add("username", *params.Username)
	}
	if params.Email != nil {
		add("email", *params.Email)
	}
	if params.PasswordHash != nil {
		add("password_hash", *params.PasswordHash)
	}
	if params.ImageFile != nil {
		add("image_file", *params.ImageFile)
	}
	if params.IsVerified != nil {
		add("is_verified", *params.IsVerified)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, params.ID)
	}

	args = append(args, params.ID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), userCols)

	var u models.User
	if err := r.db.GetContext(ctx, &u, query, args...); err != nil {
		return nil, translateErr(err, "user")
	}
	return &u, nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM sessions WHERE user_id = $1`, id); err != nil {
			return err
		}
		// Comments written by the user, and comments under the user's posts.
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM comments WHERE user_id = $1
			    OR post_id IN (SELECT id FROM posts WHERE user_id = $1)`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM posts WHERE user_id = $1`, id); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.New(apperr.NotFound, "user not found")
		}
		return nil
	})
}

func (r *userRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, sqlCountUsers); err != nil {
		return 0, err
	}
	return n, nil
}
