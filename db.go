package tably

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB defines the contract every tably operation executes against.
//
// All methods require context.Context so caller-owned deadlines and
// cancellation propagate to in-flight statements; tably itself never
// configures timeouts. Each operation is a single acquire/execute/release
// unit of work, so DB needs no transaction surface.
//
// Prefer depending on DB rather than *Pool so application code remains
// testable (via TestDB) and decoupled from pool operational concerns.
// Close is included to support graceful shutdown through the interface;
// the pool's lifecycle is otherwise owned by the caller.
type DB interface {
	// Exec executes a statement that does not return rows.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// Query executes a statement that returns rows, typically a SELECT.
	// The caller must close the returned Rows when done (use defer rows.Close()).
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)

	// QueryRow executes a statement expected to return at most one row.
	// If no rows match, row.Scan() returns pgx.ErrNoRows.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Close releases all pool resources. Call once during graceful shutdown.
	Close()
}
