package myerrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport layer can map it to a
// status code without inspecting message text.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindInvalidState
	KindConflict
	KindTransient
)

var (
	ErrDBConnClosed = errors.New("failed to connect to db")
	ErrUnavailable  = errors.New("storage unavailable")
)

// BlockingRef identifies a record that prevents a delete from going
// through. Summary is human-readable so callers can show it directly.
type BlockingRef struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

type Error struct {
	Kind Kind
	Msg  string
	Refs []BlockingRef
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func InvalidStatef(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

// Conflict reports a delete blocked by live references.
func Conflict(msg string, refs []BlockingRef) error {
	return &Error{Kind: KindConflict, Msg: msg, Refs: refs}
}

// Transient wraps a storage failure that is safe to retry.
func Transient(msg string, err error) error {
	return &Error{Kind: KindTransient, Msg: msg, Err: err}
}

// KindOf extracts the classification; unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// BlockingRefs returns the blocking-record list if err carries one.
func BlockingRefs(err error) []BlockingRef {
	var e *Error
	if errors.As(err, &e) {
		return e.Refs
	}
	return nil
}
