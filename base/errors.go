package base

import "github.com/pkg/errors"

// The four error kinds of the library.  Every failure wraps one of these
// sentinels; callers that need to discriminate use Kind.
var (
	// ErrInvalidText: malformed token, unexpected end of input,
	// mismatched delimiters, unknown prefix.
	ErrInvalidText = errors.New("invalid text input")
	// ErrInvalidArgType: mixing containers of one type with operands of
	// another, or applying a type-specific accessor to the wrong
	// container.
	ErrInvalidArgType = errors.New("invalid argument type")
	// ErrInvalidArgValue: arguments that are well-typed but out of
	// domain (empty span, reversed bounds, negative precision, ...).
	ErrInvalidArgValue = errors.New("invalid argument value")
	// ErrInternalType: a catalog lookup failed.  Unreachable unless a
	// container was built by hand with an inconsistent tag.
	ErrInternalType = errors.New("internal type error")
)

// TextErrorf returns an ErrInvalidText wrapped with a diagnostic.
func TextErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidText, format, args...)
}

// ValueErrorf returns an ErrInvalidArgValue wrapped with a diagnostic.
func ValueErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgValue, format, args...)
}

// TypeErrorf returns an ErrInvalidArgType wrapped with a diagnostic.
func TypeErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgType, format, args...)
}

// InternalErrorf returns an ErrInternalType wrapped with a diagnostic.
func InternalErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInternalType, format, args...)
}

// Kind returns the sentinel behind an error produced by this library, or
// nil for foreign errors.
func Kind(err error) error {
	switch errors.Cause(err) {
	case ErrInvalidText:
		return ErrInvalidText
	case ErrInvalidArgType:
		return ErrInvalidArgType
	case ErrInvalidArgValue:
		return ErrInvalidArgValue
	case ErrInternalType:
		return ErrInternalType
	}
	return nil
}
