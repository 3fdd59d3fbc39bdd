package tably

// SafeError wraps a cause with an error string safe for default production
// logging. The wrapped cause may still contain sensitive detail.
type SafeError struct {
	msg   string
	cause error
}

func (e *SafeError) Error() string { return e.msg }
func (e *SafeError) Unwrap() error { return e.cause }

// ValidationError reports a caller mistake detected before any statement is
// issued: a delete without conditions, an unsafe identifier, an unknown sort
// direction. The pool is never touched when one is returned.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// errNoDeleteConditions guards against accidental whole-table deletes.
var errNoDeleteConditions = &ValidationError{msg: "At least one condition is required for safety"}
