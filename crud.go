package tably

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Row is a single result row keyed by column name. Values carry whatever
// types the driver decoded; tably does not reinterpret them.
type Row map[string]any

// Client composes the CRUD, inspection, and liveness operations over an
// injected DB. It holds no state beyond the pool handle and a logger, so a
// single Client is safe for concurrent use.
type Client struct {
	db      DB
	log     zerolog.Logger
	verbose bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger injects the logger used for diagnostics. The default logger
// discards everything.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithVerbose enables diagnostic logging for the boolean-returning checks,
// which otherwise degrade to false silently.
func WithVerbose() ClientOption {
	return func(c *Client) {
		c.verbose = true
	}
}

// NewClient wraps an injected DB. The Client never closes it; the pool's
// lifecycle belongs to the caller.
func NewClient(db DB, opts ...ClientOption) *Client {
	c := &Client{db: db, log: zerolog.Nop()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// AddRow inserts one row and returns it as stored, including generated
// defaults. Failures are logged and returned unwrapped.
func (c *Client) AddRow(ctx context.Context, table string, data Fields) (Row, error) {
	q, err := buildInsert(table, data)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.Query(ctx, q.Text, q.Params...)
	if err != nil {
		c.log.Error().Err(err).Str("table", table).Msg("insert failed")
		return nil, err
	}

	out, err := collectRows(rows)
	if err != nil {
		c.log.Error().Err(err).Str("table", table).Msg("insert failed")
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// GetEntry returns the first row matching conds, shaped by opts, or nil
// when nothing matched. Zero matches are not an error.
func (c *Client) GetEntry(ctx context.Context, table string, conds Fields, opts Options) (Row, error) {
	opts.MaxEntries = 1
	out, err := c.GetEntries(ctx, table, conds, opts)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// GetEntries returns up to opts.MaxEntries rows matching conds, or nil when
// nothing matched — never a non-nil empty slice. Fewer matches than the cap
// return exactly the matches.
func (c *Client) GetEntries(ctx context.Context, table string, conds Fields, opts Options) ([]Row, error) {
	q, err := buildSelect(table, conds, opts)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.Query(ctx, q.Text, q.Params...)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry from %s: %w", table, err)
	}

	out, err := collectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry from %s: %w", table, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// GetAllFromTable returns every row of the table, unbounded.
func (c *Client) GetAllFromTable(ctx context.Context, table string) ([]Row, error) {
	q, err := buildSelectAll(table)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.Query(ctx, q.Text)
	if err != nil {
		return nil, err
	}
	return collectRows(rows)
}

// UpdateRecords applies updates to every row matching conds and returns the
// updated rows. Empty conds update every row in the table; pass an empty
// condition set only when a bulk update is intended.
func (c *Client) UpdateRecords(ctx context.Context, table string, conds, updates Fields) ([]Row, error) {
	q, err := buildUpdate(table, conds, updates)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.Query(ctx, q.Text, q.Params...)
	if err != nil {
		return nil, fmt.Errorf("failed to update records in %s: %w", table, err)
	}

	out, err := collectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to update records in %s: %w", table, err)
	}
	return out, nil
}

// DeleteEntry removes the rows matching conds and returns the affected-row
// count. Empty conds fail fast with a ValidationError before any statement
// reaches the pool.
func (c *Client) DeleteEntry(ctx context.Context, table string, conds Fields) (int64, error) {
	q, err := buildDelete(table, conds, false)
	if err != nil {
		return 0, err
	}

	tag, err := c.db.Exec(ctx, q.Text, q.Params...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entry from %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

// DeleteEntryReturning removes the rows matching conds and returns the
// first deleted row, or nil when nothing matched. The empty-conds guard of
// DeleteEntry applies here too.
func (c *Client) DeleteEntryReturning(ctx context.Context, table string, conds Fields) (Row, error) {
	q, err := buildDelete(table, conds, true)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.Query(ctx, q.Text, q.Params...)
	if err != nil {
		return nil, fmt.Errorf("failed to delete entry from %s: %w", table, err)
	}

	out, err := collectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to delete entry from %s: %w", table, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// CreateTable issues an idempotent CREATE TABLE IF NOT EXISTS. The column
// definition is raw DDL; see buildCreateTable.
func (c *Client) CreateTable(ctx context.Context, table, columnsDefinition string) error {
	q, err := buildCreateTable(table, columnsDefinition)
	if err != nil {
		return err
	}

	_, err = c.db.Exec(ctx, q.Text)
	return err
}

// collectRows drains rows into column-keyed maps and closes the cursor.
func collectRows(rows pgx.Rows) ([]Row, error) {
	defer rows.Close()

	fds := rows.FieldDescriptions()

	var out []Row
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(Row, len(fds))
		for i, fd := range fds {
			if i < len(vals) {
				row[fd.Name] = vals[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
