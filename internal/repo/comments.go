package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"blog/internal/apperr"
	"blog/internal/models"
)

// CommentRepo is the persistence contract for comments. Lookups are always
// scoped to a post, so a comment id from another post reads as not found.
type CommentRepo interface {
	Create(ctx context.Context, params models.CreateCommentParams) (*models.Comment, error)
	GetByPost(ctx context.Context, postID, id int64) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int64, p Page) ([]models.Comment, Meta, error)
	Delete(ctx context.Context, postID, id int64) error
}

type commentRepo struct {
	db *sqlx.DB
}

func NewCommentRepo(d *sqlx.DB) CommentRepo { return &commentRepo{db: d} }

const commentCols = `c.id, c.post_id, c.user_id, c.content, c.created_at, u.username AS author`

const (
	sqlInsertComment = `
		INSERT INTO comments (post_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, post_id, user_id, content, created_at`

	sqlCommentByPost = `
		SELECT ` + commentCols + `
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1 AND c.id = $2`

	sqlListCommentsByPost = `
		SELECT ` + commentCols + `
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC
		LIMIT $2 OFFSET $3`

	sqlCountCommentsByPost = `SELECT COUNT(*) FROM comments WHERE post_id = $1`

	sqlDeleteComment = `DELETE FROM comments WHERE post_id = $1 AND id = $2`
)

func (r *commentRepo) Create(ctx context.Context, params models.CreateCommentParams) (*models.Comment, error) {
	var c models.Comment
	err := r.db.GetContext(ctx, &c, sqlInsertComment, params.PostID, params.UserID, params.Content)
	if err != nil {
		return nil, translateErr(err, "comment")
	}
	return &c, nil
}

func (r *commentRepo) GetByPost(ctx context.Context, postID, id int64) (*models.Comment, error) {
	var c models.Comment
	if err := r.db.GetContext(ctx, &c, sqlCommentByPost, postID, id); err != nil {
		return nil, translateErr(err, "comment")
	}
	return &c, nil
}

func (r *commentRepo) ListByPost(ctx context.Context, postID int64, p Page) ([]models.Comment, Meta, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, sqlCountCommentsByPost, postID); err != nil {
		return nil, Meta{}, err
	}

	comments := []models.Comment{}
	if err := r.db.SelectContext(ctx, &comments, sqlListCommentsByPost, postID, p.Limit(), p.Offset()); err != nil {
		return nil, Meta{}, err
	}
	return comments, MetaFor(p, total), nil
}

func (r *commentRepo) Delete(ctx context.Context, postID, id int64) error {
	res, err := r.db.ExecContext(ctx, sqlDeleteComment, postID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.NotFound, "comment not found")
	}
	return nil
}
