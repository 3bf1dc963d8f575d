package core

import (
	"errors"
	"fmt"
)

var (
	// ErrDataSourceUnavailable means the store could not be reached or queried.
	ErrDataSourceUnavailable = errors.New("data source unavailable")
	// ErrQueryRejected means a statement failed the read-only guard.
	ErrQueryRejected = errors.New("query rejected")
	// ErrQueryUnsupported means the active backend cannot execute SQL.
	ErrQueryUnsupported = errors.New("query execution not supported by backend")
	// ErrGeneratorUnavailable means no SQL generator is configured.
	ErrGeneratorUnavailable = errors.New("sql generator unavailable")
	// ErrGeneratorQuota means the generator refused the call because of quota or rate limits.
	ErrGeneratorQuota = errors.New("sql generator quota exceeded")
	// ErrQueryFailed means the database refused or aborted a statement that
	// passed the guard, e.g. an unknown column.
	ErrQueryFailed = errors.New("query failed")
)

// QueryRejectedError carries the reason a statement was refused.
type QueryRejectedError struct {
	Reason string
}

func (e *QueryRejectedError) Error() string {
	return fmt.Sprintf("query rejected: %s", e.Reason)
}

func (e *QueryRejectedError) Unwrap() error {
	return ErrQueryRejected
}

// RejectQuery builds a QueryRejectedError with a formatted reason.
func RejectQuery(format string, args ...any) error {
	return &QueryRejectedError{Reason: fmt.Sprintf(format, args...)}
}

// Unavailable wraps err so that errors.Is(err, ErrDataSourceUnavailable) holds.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDataSourceUnavailable, err)
}

// QueryFailedError carries the database's own message for a failed statement.
type QueryFailedError struct {
	Err error
}

func (e *QueryFailedError) Error() string {
	return "query failed: " + e.Err.Error()
}

func (e *QueryFailedError) Unwrap() []error {
	return []error{ErrQueryFailed, e.Err}
}

// FailQuery wraps a database error so that errors.Is(err, ErrQueryFailed) holds.
func FailQuery(err error) error {
	if err == nil {
		return nil
	}
	return &QueryFailedError{Err: err}
}
