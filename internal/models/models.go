package models

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	ImageFile    string    `db:"image_file" json:"image_file"`
	IsVerified   bool      `db:"is_verified" json:"is_verified"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Post struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"date_posted"`
	Author    string    `db:"author" json:"author,omitempty"`
}

// Comments are only ever created and deleted, never edited.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"date_commented"`
	Author    string    `db:"author" json:"author,omitempty"`
}

type Session struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	ImageFile    string
	IsVerified   bool
}

// Update params apply only the fields with non-nil pointers.

type UpdateUserParams struct {
	ID           int64
	Username     *string
	Email        *string
	PasswordHash *string
	ImageFile    *string
	IsVerified   *bool
}

type CreatePostParams struct {
	UserID  int64
	Title   string
	Content string
}

type UpdatePostParams struct {
	ID      int64
	Title   *string
	Content *string
}

type CreateCommentParams struct {
	PostID  int64
	UserID  int64
	Content string
}
