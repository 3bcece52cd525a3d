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

// PostRepo is the persistence contract for posts. Lists are newest-first
// on every surface. Delete removes the post's comments in the same
// transaction as the post row.
type PostRepo interface {
	Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context, p Page) ([]models.Post, Meta, error)
	ListByUser(ctx context.Context, userID int64, p Page) ([]models.Post, Meta, error)
	Update(ctx context.Context, params models.UpdatePostParams) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type postRepo struct {
	db *sqlx.DB
}

func NewPostRepo(d *sqlx.DB) PostRepo { return &postRepo{db: d} }

const postCols = `p.id, p.user_id, p.title, p.content, p.created_at, u.username AS author`

const (
	sqlInsertPost = `
		INSERT INTO posts (user_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, title, content, created_at`

	sqlPostByID = `
		SELECT ` + postCols + `
		FROM posts p JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`

	sqlListPosts = `
		SELECT ` + postCols + `
		FROM posts p JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2`

	sqlListPostsByUser = `
		SELECT ` + postCols + `
		FROM posts p JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3`

	sqlCountPosts       = `SELECT COUNT(*) FROM posts`
	sqlCountPostsByUser = `SELECT COUNT(*) FROM posts WHERE user_id = $1`
)

func (r *postRepo) Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error) {
	var p models.Post
	err := r.db.GetContext(ctx, &p, sqlInsertPost, params.UserID, params.Title, params.Content)
	if err != nil {
		return nil, translateErr(err, "post")
	}
	return &p, nil
}

func (r *postRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var p models.Post
	if err := r.db.GetContext(ctx, &p, sqlPostByID, id); err != nil {
		return nil, translateErr(err, "post")
	}
	return &p, nil
}

func (r *postRepo) List(ctx context.Context, p Page) ([]models.Post, Meta, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, Meta{}, err
	}

	posts := []models.Post{}
	if err := r.db.SelectContext(ctx, &posts, sqlListPosts, p.Limit(), p.Offset()); err != nil {
		return nil, Meta{}, err
	}
	return posts, MetaFor(p, total), nil
}

func (r *postRepo) ListByUser(ctx context.Context, userID int64, p Page) ([]models.Post, Meta, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, sqlCountPostsByUser, userID); err != nil {
		return nil, Meta{}, err
	}

	posts := []models.Post{}
	if err := r.db.SelectContext(ctx, &posts, sqlListPostsByUser, userID, p.Limit(), p.Offset()); err != nil {
		return nil, Meta{}, err
	}
	return posts, MetaFor(p, total), nil
}

// Update applies only the non-nil fields of params.
func (r *postRepo) Update(ctx context.Context, params models.UpdatePostParams) (*models.Post, error) {
	set := make([]string, 0, 2)
	args := make([]any, 0, 3)
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.Content != nil {
		add("content", *params.Content)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, params.ID)
	}

	args = append(args, params.ID)
	query := fmt.Sprintf(`UPDATE posts SET %s WHERE id = $%d
		RETURNING id, user_id, title, content, created_at`,
		strings.Join(set, ", "), len(args))

	var p models.Post
	if err := r.db.GetContext(ctx, &p, query, args...); err != nil {
		return nil, translateErr(err, "post")
	}
	return &p, nil
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM comments WHERE post_id = $1`, id); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.New(apperr.NotFound, "post not found")
		}
		return nil
	})
}

func (r *postRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, sqlCountPosts); err != nil {
		return 0, err
	}
	return n, nil
}
