package session

import "errors"

var (
	// ErrUnknownAnimation is returned for names that are not configured.
	ErrUnknownAnimation = errors.New("unknown animation")
	// ErrUnknownControl is returned when an animation has no such control or
	// parameter.
	ErrUnknownControl = errors.New("unknown control")
	// ErrIncomplete is returned when an archive ends before every expected
	// frame was inserted.
	ErrIncomplete = errors.New("archive is missing frames")
	// ErrWrongControl is returned when an operation does not apply to the
	// kind of the named control.
	ErrWrongControl = errors.New("operation not supported by control")
	// ErrClosed is returned by loads requested after Close.
	ErrClosed = errors.New("session is closed")
)
