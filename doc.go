// Package tably is a small data-access layer for PostgreSQL built on pgx v5.
// It turns structured operations (insert, conditional select, conditional
// update, conditional delete, existence checks, liveness probes) into
// dynamically assembled, fully parameterized SQL executed against a shared
// connection pool.
//
// Invariants:
//
//   - I1: the pool is injected, never ambient; tably does not own its
//     lifecycle (the one exception is the transient administrative
//     connection opened and unconditionally closed by CreateDatabase).
//   - I2: values are always bound as positional parameters, never
//     interpolated into SQL text.
//   - I3: identifiers (table, column, sort columns) are validated before
//     being emitted into SQL text; CreateTable's column definition is the
//     documented trusted-input exception.
//   - I4: deletes require at least one condition and fail fast before
//     touching the pool.
//   - I5: zero-match reads yield nil, never an error and never a non-nil
//     empty collection.
//   - I6: connect-path errors are safe to log by default.
//
// Conditions support equality only, joined by AND, against a single table.
// Transactions, retries, and statement caching are out of scope.
package tably
