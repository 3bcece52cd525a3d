package db

import (
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Open connects to Postgres through the pgx stdlib driver and applies the
// pool settings used across the app.
func Open(dsn string) (*sqlx.DB, error) {
	d, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, err
	}

	d.SetMaxOpenConns(10)
	d.SetMaxIdleConns(5)
	d.SetConnMaxLifetime(30 * time.Minute)

	return d, nil
}
