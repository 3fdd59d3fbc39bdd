package tably

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// maintenanceDB is the administrative database CREATE DATABASE runs against.
const maintenanceDB = "postgres"

// adminConn is the slice of *pgx.Conn CreateDatabase uses.
type adminConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close(ctx context.Context) error
}

// dialAdmin is a package-private seam used by tests to exercise
// CreateDatabase without network dependencies.
var dialAdmin = func(ctx context.Context, dsn string) (adminConn, error) {
	return pgx.Connect(ctx, dsn)
}

// CreateDatabase creates the named database by opening a transient
// connection to the maintenance database with the supplied credentials.
// The connection is closed on every path, success or failure. Errors are
// swallowed to false; pass WithLogger and WithVerbose to see them.
func CreateDatabase(ctx context.Context, info ConnectionInfo, name string, opts ...ClientOption) bool {
	c := NewClient(nil, opts...)

	if err := validateIdent("database", name); err != nil {
		c.diag(err, "create database rejected")
		return false
	}

	conn, err := dialAdmin(ctx, info.dsn(maintenanceDB, ""))
	if err != nil {
		c.diag(err, "create database: maintenance connect failed")
		return false
	}
	defer func() {
		// The creation context may already be canceled; closing must not
		// depend on it.
		_ = conn.Close(context.Background())
	}()

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+quoteIdent(name)); err != nil {
		c.diag(err, "create database failed")
		return false
	}

	if c.verbose {
		c.log.Debug().Str("database", name).Msg("database created")
	}
	return true
}
