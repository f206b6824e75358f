package asset

import (
	"errors"
	"fmt"
)

// Class groups load failures by what the user can do about them.
type Class int

const (
	ClassOther Class = iota
	ClassCrossOrigin
	ClassNotFound
	ClassNetwork
)

func (c Class) String() string {
	switch c {
	case ClassCrossOrigin:
		return "cross-origin"
	case ClassNotFound:
		return "not-found"
	case ClassNetwork:
		return "network"
	default:
		return "other"
	}
}

// LoadError describes why an image could not be loaded.
type LoadError struct {
	URL    string
	Class  Class
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load image %s: %s: %v", e.URL, e.Class, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Message returns a short user-facing explanation.
func (e *LoadError) Message() string {
	switch e.Class {
	case ClassCrossOrigin:
		return "Image could not be loaded due to cross-origin restrictions."
	case ClassNotFound:
		return "Image not found. The URL may be invalid or expired."
	case ClassNetwork:
		return "Network error. Please check your connection and try again."
	default:
		return "Failed to load image. Please try again or use a different image."
	}
}

// AsLoadError extracts the [*LoadError] from err's chain.
func AsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	ok := errors.As(err, &le)
	return le, ok
}
