package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"gridiron/internal/adapters/config"
	"gridiron/pkg/errors"
)

const connectTimeout = 5 * time.Second

// Client owns the Postgres connection pool
type Client struct {
	db *sqlx.DB
}

// NewClient opens a pool against the configured database and verifies it
// with a bounded ping
func NewClient(cfg config.PostgresConfig) (*Client, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open postgres")
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns / 2)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping postgres")
	}

	return &Client{db: db}, nil
}

// DB exposes the pool to repositories
func (c *Client) DB() *sqlx.DB { return c.db }

func (c *Client) Close() error { return c.db.Close() }

// Health reports pool connectivity
func (c *Client) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
