package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindFetch
	KindParse
	KindBusy
	KindNotFound
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "fetch_failure"
	case KindParse:
		return "parse_failure"
	case KindBusy:
		return "refresh_busy"
	case KindNotFound:
		return "not_found"
	case KindConfig:
		return "config"
	default:
		return "internal"
	}
}

// Error is an application-level error with a kind for classification.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func FetchFailure(err error, msg string) *Error {
	return &Error{Kind: KindFetch, Message: msg, Err: err}
}

func FetchFailuref(format string, args ...any) *Error {
	return &Error{Kind: KindFetch, Message: fmt.Sprintf(format, args...)}
}

func ParseFailuref(format string, args ...any) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...)}
}

func Busy(msg string) *Error {
	return &Error{Kind: KindBusy, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Config(err error, msg string) *Error {
	return &Error{Kind: KindConfig, Message: msg, Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Kind == kind
}
