package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the statement surface a unit of work may use. pgx.Tx
// satisfies it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Gateway owns all database access. Every operation runs as a unit of
// work: a transaction drawn from the pool, committed only when the caller
// asks for it and rolled back otherwise. Failures inside the body roll
// back and propagate unchanged.
type Gateway struct {
	pool *pgxpool.Pool
}

func NewGateway(pool *pgxpool.Pool) *Gateway {
	return &Gateway{pool: pool}
}

var errNotConnected = errors.New("database: gateway not connected")

func (g *Gateway) Run(ctx context.Context, commit bool, fn func(ctx context.Context, q Querier) error) error {
	if g == nil || g.pool == nil {
		return errNotConnected
	}

	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// No-op after a successful commit.
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if commit {
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
	}
	return nil
}

func (g *Gateway) Ping(ctx context.Context) error {
	if g == nil || g.pool == nil {
		return errNotConnected
	}
	return g.pool.Ping(ctx)
}

// Close releases all pooled connections. Safe on a gateway that never
// connected.
func (g *Gateway) Close() {
	if g == nil || g.pool == nil {
		return
	}
	g.pool.Close()
}
