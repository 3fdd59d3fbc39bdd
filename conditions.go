package tably

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Field pairs a column with a value. It is the unit of both condition maps
// (WHERE col = value) and data maps (INSERT/UPDATE column values).
type Field struct {
	Column string
	Value  any
}

// Fields is an ordered set of column/value pairs. Order is significant:
// positional parameters are bound in slice order.
type Fields []Field

// SortKey names a column and a direction for ORDER BY.
type SortKey struct {
	Column string
	// Direction is "asc" or "desc" (case-insensitive). Empty means asc.
	Direction string
}

// Options shapes conditional reads.
type Options struct {
	// Fields is the projection list. Nil or empty selects all columns (*).
	Fields []string

	// Sort lists ORDER BY keys in order of precedence.
	Sort []SortKey

	// MaxEntries caps the row count (LIMIT). Values below 1 mean 1.
	MaxEntries int
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateIdent rejects anything that is not a plain unquoted Postgres
// identifier. Table, column, and sort-column names pass through here before
// they are emitted into SQL text.
func validateIdent(kind, name string) error {
	if !identPattern.MatchString(name) {
		return &ValidationError{msg: fmt.Sprintf("unsafe %s identifier %q", kind, name)}
	}
	return nil
}

// quoteIdent double-quotes an identifier, doubling embedded quotes.
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// whereClause renders conds as "col1 = $n AND col2 = $n+1 ..." with
// placeholder numbering starting at start, plus the parameters in order.
// Empty conds yield an empty clause; the caller omits WHERE entirely.
func whereClause(conds Fields, start int) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}

	parts := make([]string, 0, len(conds))
	params := make([]any, 0, len(conds))
	for i, f := range conds {
		if err := validateIdent("condition column", f.Column); err != nil {
			return "", nil, err
		}
		parts = append(parts, f.Column+" = $"+strconv.Itoa(start+i))
		params = append(params, f.Value)
	}

	return strings.Join(parts, " AND "), params, nil
}

// setClause renders updates as "col1 = $1, col2 = $2 ..." starting at $1.
func setClause(updates Fields) (string, []any, error) {
	if len(updates) == 0 {
		return "", nil, &ValidationError{msg: "at least one field is required for update"}
	}

	parts := make([]string, 0, len(updates))
	params := make([]any, 0, len(updates))
	for i, f := range updates {
		if err := validateIdent("update column", f.Column); err != nil {
			return "", nil, err
		}
		parts = append(parts, f.Column+" = $"+strconv.Itoa(i+1))
		params = append(params, f.Value)
	}

	return strings.Join(parts, ", "), params, nil
}

// orderByClause renders sort keys as "ORDER BY col1 ASC, col2 DESC".
// Empty sort yields an empty clause.
func orderByClause(sort []SortKey) (string, error) {
	if len(sort) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(sort))
	for _, key := range sort {
		if err := validateIdent("sort column", key.Column); err != nil {
			return "", err
		}
		dir, err := sortDirection(key.Direction)
		if err != nil {
			return "", err
		}
		parts = append(parts, key.Column+" "+dir)
	}

	return "ORDER BY " + strings.Join(parts, ", "), nil
}

func sortDirection(direction string) (string, error) {
	switch strings.ToLower(direction) {
	case "", "asc":
		return "ASC", nil
	case "desc":
		return "DESC", nil
	default:
		return "", &ValidationError{msg: fmt.Sprintf("unknown sort direction %q", direction)}
	}
}

// fieldList renders a projection list, or "*" when fields is empty.
func fieldList(fields []string) (string, error) {
	if len(fields) == 0 {
		return "*", nil
	}

	for _, f := range fields {
		if err := validateIdent("projection column", f); err != nil {
			return "", err
		}
	}

	return strings.Join(fields, ", "), nil
}
