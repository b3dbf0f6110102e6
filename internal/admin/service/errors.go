package service

import (
	"errors"
	"fmt"
)

// Kind classifies a failed admin call. The values are the wire codes.
type Kind string

const (
	KindUnauthenticated  Kind = "unauthenticated"
	KindPermissionDenied Kind = "permission-denied"
	KindInvalidArgument  Kind = "invalid-argument"
	KindInternal         Kind = "internal"
)

// Sentinels for errors.Is against a *CallError of the same kind.
var (
	ErrUnauthenticated  = errors.New(string(KindUnauthenticated))
	ErrPermissionDenied = errors.New(string(KindPermissionDenied))
	ErrInvalidArgument  = errors.New(string(KindInvalidArgument))
	ErrInternal         = errors.New(string(KindInternal))
)

func (k Kind) sentinel() error {
	switch k {
	case KindUnauthenticated:
		return ErrUnauthenticated
	case KindPermissionDenied:
		return ErrPermissionDenied
	case KindInvalidArgument:
		return ErrInvalidArgument
	}
	return ErrInternal
}

// CallError is the only error type the admin services return to the
// transport. Message is safe to show to the caller; Err is the cause, kept
// for logs.
type CallError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *CallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CallError) Unwrap() error { return e.Err }

func (e *CallError) Is(target error) bool { return target == e.Kind.sentinel() }

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

const msgMustBeLoggedIn = "Must be logged in"

func unauthenticated() *CallError {
	return &CallError{Kind: KindUnauthenticated, Message: msgMustBeLoggedIn}
}

func permissionDenied(msg string) *CallError {
	return &CallError{Kind: KindPermissionDenied, Message: msg}
}

func invalidArgument(msg string) *CallError {
	return &CallError{Kind: KindInvalidArgument, Message: msg}
}

func internal(msg string, err error) *CallError {
	return &CallError{Kind: KindInternal, Message: msg, Err: err}
}
