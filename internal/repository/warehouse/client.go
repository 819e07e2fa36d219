// Package warehouse reads products and forecasts from a Postgres-compatible SQL warehouse.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/kailas-cloud/retaildex/internal/db"
)

// Config holds connection and table settings.
type Config struct {
	DSN             string
	ProductsTable   string
	ForecastsTable  string
	MaxRows         int
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Client wraps a *sql.DB opened with the lib/pq driver.
type Client struct {
	db  *sql.DB
	cfg Config
}

// Open connects to the warehouse and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Client, error) {
	conn, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening warehouse connection: %w", err)
	}
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	c := &Client{db: conn, cfg: cfg}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.db.Close() //nolint:wrapcheck // shutdown path
}

// quoteTable quotes every dot-separated segment of a possibly qualified table name.
func quoteTable(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("table name is required")
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if p == "" {
			return "", fmt.Errorf("invalid table name %q", name)
		}
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, "."), nil
}

func nullString(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return strings.TrimSpace(s.String)
}
