package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"newsflow-backend/internal/workflow"
)

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx so
// the same queries serve both transactional and direct reads.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db dbtx
}

type Client struct {
	queries
	db *sql.DB
}

func NewClient(connectionString string) (*Client, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{queries: queries{db: db}, db: db}, nil
}

// InTx runs fn inside a transaction. Any error rolls back every write,
// so a failed transition leaves no partial state behind.
func (c *Client) InTx(ctx context.Context, fn func(workflow.Store) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&queries{db: tx}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.db.Close()
}
