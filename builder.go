package tably

import (
	"strconv"
	"strings"
)

// Query is the sole unit handed to the pool: statement text plus its
// positional parameters. A Query is built fresh per call and never cached,
// so there is no prepared-statement identity to manage.
type Query struct {
	Text   string
	Params []any
}

// buildSelect assembles SELECT <fields> FROM <table> [WHERE ...]
// [ORDER BY ...] LIMIT <n>. The limit is MaxEntries when positive, else 1.
func buildSelect(table string, conds Fields, opts Options) (Query, error) {
	if err := validateIdent("table", table); err != nil {
		return Query{}, err
	}

	projection, err := fieldList(opts.Fields)
	if err != nil {
		return Query{}, err
	}
	where, params, err := whereClause(conds, 1)
	if err != nil {
		return Query{}, err
	}
	orderBy, err := orderByClause(opts.Sort)
	if err != nil {
		return Query{}, err
	}

	limit := opts.MaxEntries
	if limit < 1 {
		limit = 1
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(projection)
	b.WriteString(" FROM ")
	b.WriteString(table)
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	if orderBy != "" {
		b.WriteString(" ")
		b.WriteString(orderBy)
	}
	b.WriteString(" LIMIT ")
	b.WriteString(strconv.Itoa(limit))

	return Query{Text: b.String(), Params: params}, nil
}

// buildSelectAll assembles an unbounded SELECT * FROM <table>.
func buildSelectAll(table string) (Query, error) {
	if err := validateIdent("table", table); err != nil {
		return Query{}, err
	}
	return Query{Text: "SELECT * FROM " + table}, nil
}

// buildInsert assembles INSERT INTO <table> (<cols>) VALUES ($1, ...)
// RETURNING *. Every value is bound as a positional parameter.
func buildInsert(table string, data Fields) (Query, error) {
	if err := validateIdent("table", table); err != nil {
		return Query{}, err
	}
	if len(data) == 0 {
		return Query{}, &ValidationError{msg: "at least one field is required for insert"}
	}

	cols := make([]string, 0, len(data))
	placeholders := make([]string, 0, len(data))
	params := make([]any, 0, len(data))
	for i, f := range data {
		if err := validateIdent("insert column", f.Column); err != nil {
			return Query{}, err
		}
		cols = append(cols, f.Column)
		placeholders = append(placeholders, "$"+strconv.Itoa(i+1))
		params = append(params, f.Value)
	}

	text := "INSERT INTO " + table +
		" (" + strings.Join(cols, ", ") + ")" +
		" VALUES (" + strings.Join(placeholders, ", ") + ")" +
		" RETURNING *"

	return Query{Text: text, Params: params}, nil
}

// buildUpdate assembles UPDATE <table> SET ... [WHERE ...] RETURNING *.
// WHERE placeholders continue numbering after the SET placeholders. Empty
// conds omit the WHERE clause entirely, updating every row in the table.
func buildUpdate(table string, conds, updates Fields) (Query, error) {
	if err := validateIdent("table", table); err != nil {
		return Query{}, err
	}

	set, setParams, err := setClause(updates)
	if err != nil {
		return Query{}, err
	}
	where, whereParams, err := whereClause(conds, len(updates)+1)
	if err != nil {
		return Query{}, err
	}

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")
	b.WriteString(set)
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteString(" RETURNING *")

	return Query{Text: b.String(), Params: append(setParams, whereParams...)}, nil
}

// buildDelete assembles DELETE FROM <table> WHERE ... [RETURNING *].
// It fails fast when conds is empty; no statement reaches the pool.
func buildDelete(table string, conds Fields, returning bool) (Query, error) {
	if err := validateIdent("table", table); err != nil {
		return Query{}, err
	}
	if len(conds) == 0 {
		return Query{}, errNoDeleteConditions
	}

	where, params, err := whereClause(conds, 1)
	if err != nil {
		return Query{}, err
	}

	text := "DELETE FROM " + table + " WHERE " + where
	if returning {
		text += " RETURNING *"
	}

	return Query{Text: text, Params: params}, nil
}

// buildCreateTable assembles CREATE TABLE IF NOT EXISTS <table> (<def>).
// columnsDefinition is raw DDL and is passed through untouched; it must
// come from trusted code, never from request input.
func buildCreateTable(table, columnsDefinition string) (Query, error) {
	if err := validateIdent("table", table); err != nil {
		return Query{}, err
	}
	return Query{Text: "CREATE TABLE IF NOT EXISTS " + table + " (" + columnsDefinition + ")"}, nil
}
