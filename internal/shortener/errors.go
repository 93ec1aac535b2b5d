package shortener

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by repositories when no record matches the lookup key.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by repositories when a write violates a uniqueness constraint.
	ErrConflict = errors.New("already exists")

	// ErrTokenFrozen is returned when regenerating the token of a persisted short link.
	ErrTokenFrozen = errors.New("token of a persisted short link cannot change")
)

// Kind classifies a domain failure. Callers branch on the kind instead of the concrete error.
type Kind string

const (
	KindUnknown                Kind = ""
	KindNotFound               Kind = "not_found"
	KindInvalidArgument        Kind = "invalid_argument"
	KindInvalidTokenGeneration Kind = "invalid_token_generation"
	KindShortLinkSaving        Kind = "short_link_saving"
	KindBarcodeGeneration      Kind = "barcode_generation"
	KindBarcodeSaving          Kind = "barcode_saving"
	KindBarcodeInfoSaving      Kind = "barcode_info_saving"
	KindBarcodeReading         Kind = "barcode_reading"
)

// Error is a classified failure carrying the key (token, URL or short link id) that triggered it.
type Error struct {
	Kind Kind
	Key  string
	Msg  string
	Err  error
}

// NewError builds a classified error wrapping the collaborator failure err, which may be nil.
func NewError(kind Kind, key string, err error, msg string) *Error {
	return &Error{
		Kind: kind,
		Key:  key,
		Msg:  msg,
		Err:  err,
	}
}

// Message returns the error text without the wrapped cause, safe to show to API clients.
func (e *Error) Message() string {
	if e.Key == "" {
		return e.Msg
	}

	return fmt.Sprintf("%s: %s", e.Msg, e.Key)
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message()
	}

	return fmt.Sprintf("%s: %v", e.Message(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}
