package tably

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// HealthStatus is the response type for health check endpoints.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthCheck verifies database connectivity and returns a status suitable
// for health check API endpoints. Unlike TestConnection it reports the
// failure to the caller, wrapped safely for default logging.
func HealthCheck(ctx context.Context, db DB) (*HealthStatus, error) {
	if err := db.Ping(ctx); err != nil {
		return nil, &SafeError{msg: "tably: health check failed", cause: err}
	}

	return &HealthStatus{Status: "ok", Database: "postgres"}, nil
}

// TestConnection probes liveness with a trivial query. It never returns an
// error: failures degrade to false, visible only with verbose logging.
func (c *Client) TestConnection(ctx context.Context) bool {
	var one int
	if err := c.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		c.diag(err, "connection probe failed")
		return false
	}
	if c.verbose {
		c.log.Debug().Msg("connection probe ok")
	}
	return true
}

// DatabaseExists reports whether a database with the given name exists.
// All errors — including query failures — are swallowed to false; enable
// verbose logging to see the cause.
func (c *Client) DatabaseExists(ctx context.Context, name string) bool {
	var one int
	err := c.db.QueryRow(ctx, "SELECT 1 FROM pg_database WHERE datname = $1", name).Scan(&one)
	switch {
	case err == nil:
		return true
	case errors.Is(err, pgx.ErrNoRows):
		return false
	default:
		c.diag(err, "database existence check failed")
		return false
	}
}

// TableExists reports whether the table exists in the given schema
// (default "public"). Unlike DatabaseExists, query failures propagate to
// the caller; false with a nil error means the table is genuinely absent.
func (c *Client) TableExists(ctx context.Context, name string, schema ...string) (bool, error) {
	s := "public"
	if len(schema) > 0 && schema[0] != "" {
		s = schema[0]
	}

	var one int
	err := c.db.QueryRow(ctx,
		"SELECT 1 FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2",
		s, name,
	).Scan(&one)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	default:
		return false, err
	}
}

// diag logs a swallowed error when verbose logging is on.
func (c *Client) diag(err error, msg string) {
	if !c.verbose {
		return
	}
	c.log.Debug().Err(err).Msg(msg)
}
