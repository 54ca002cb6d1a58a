package core

import (
	"errors"
	"strconv"
	"strings"
)

const (
	KindNotFound       ErrorKind = "not_found"
	KindBadRequest     ErrorKind = "bad_request"
	KindStorageFailure ErrorKind = "storage_failure"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrStorage    = errors.New("storage failure")
)

type ErrorKind string

// Error is a classified failure surfaced to callers. IDs lists the offending identifiers.
type Error struct {
	Kind    ErrorKind
	Message string
	IDs     []int64
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.IDs) > 0 {
		ids := make([]string, len(e.IDs))
		for i, id := range e.IDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		b.WriteString(" [")
		b.WriteString(strings.Join(ids, ", "))
		b.WriteString("]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrBadRequest:
		return e.Kind == KindBadRequest
	case ErrStorage:
		return e.Kind == KindStorageFailure
	}
	return false
}

func NotFound(msg string, ids ...int64) error {
	return &Error{Kind: KindNotFound, Message: msg, IDs: ids}
}

func BadRequest(msg string, ids ...int64) error {
	return &Error{Kind: KindBadRequest, Message: msg, IDs: ids}
}

// StorageFailure wraps a store error. Classified errors pass through unchanged.
func StorageFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}
	return &Error{Kind: KindStorageFailure, Message: op, Err: err}
}

// KindOf returns the kind of a classified error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return ""
}

// IDsOf returns the offending identifiers carried by a classified error.
func IDsOf(err error) []int64 {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.IDs
	}
	return nil
}

func (k ErrorKind) String() string {
	return string(k)
}
