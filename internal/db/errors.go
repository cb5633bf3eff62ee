package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrNoRows      = errors.New("db: no rows in result set")
	ErrPoolTimeout = errors.New("db: timed out waiting for a pooled connection")
	ErrLockHeld    = errors.New("db: lock held by another owner")
)

// Op constants name the backend operation for error context.
const (
	OpAcquire  = "ACQUIRE"
	OpPing     = "PING"
	OpQuery    = "QUERY"
	OpExec     = "EXEC"
	OpCount    = "COUNT"
	OpSearch   = "SEARCH"
	OpStats    = "STATS"
	OpGenerate = "GENERATE"
	OpClear    = "CLEAR"
	OpVacuum   = "VACUUM"
	OpReindex  = "REINDEX"
	OpMigrate  = "MIGRATE"
	OpLock     = "LOCK"
	OpUnlock   = "UNLOCK"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Unavailable reports whether err stems from acquiring or pinging a pooled connection,
// meaning the database itself could not be reached.
func Unavailable(err error) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Op == OpAcquire || e.Op == OpPing {
			return true
		}
		err = e.Err
	}
	return false
}
