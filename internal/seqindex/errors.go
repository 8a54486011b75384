package seqindex

import (
	"errors"

	"github.com/vk/sweepview/internal/framekey"
)

var (
	// ErrDuplicateName is returned when a parameter name is registered twice.
	ErrDuplicateName = errors.New("duplicate parameter name")
	// ErrParse is returned when a frame source key contains no tokens.
	ErrParse = framekey.ErrParse
	// ErrUnboundParameter is returned when a frame key names a parameter that
	// no control registered.
	ErrUnboundParameter = errors.New("frame references an unregistered parameter")
	// ErrDuplicateFrame is returned when two frames share a composite key.
	ErrDuplicateFrame = errors.New("duplicate frame key")
	// ErrNotFound is returned by Lookup when no frame exists for the current
	// parameter values. It is expected while loading is still in progress.
	ErrNotFound = errors.New("frame not found")
	// ErrAlreadyLoading guards against starting a second load.
	ErrAlreadyLoading = errors.New("loading already started")
	// ErrAlreadyLoaded is returned once every expected frame is present.
	ErrAlreadyLoaded = errors.New("all frames already loaded")
)
