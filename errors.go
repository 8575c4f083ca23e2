package filerepo

import (
	"errors"
	"fmt"

	"github.com/gobeaver/filerepo/filevalidator"
)

// Common repository errors
var (
	ErrIllegalPath    = errors.New("illegal path")
	ErrNotExist       = errors.New("file does not exist")
	ErrNotDir         = errors.New("not a directory")
	ErrNoContent      = errors.New("content stream is required")
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrNotSupported   = errors.New("operation not supported")
)

// PathError records an error and the operation and client-supplied path
// that caused it. Path is never the physical path under the root.
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *PathError) Unwrap() error {
	return e.Err
}

// IsIllegalPath reports whether an error indicates a path that escapes the
// root or is otherwise not acceptable
func IsIllegalPath(err error) bool {
	return errors.Is(err, ErrIllegalPath)
}

// IsNotExist reports whether an error indicates that a file or directory
// does not exist
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}

// IsUnsupportedType reports whether an error indicates a MIME type with no
// registered verifier
func IsUnsupportedType(err error) bool {
	return errors.Is(err, filevalidator.ErrUnsupportedType)
}

// IsInvalidFormat reports whether an error indicates content that does not
// match its claimed type
func IsInvalidFormat(err error) bool {
	return errors.Is(err, filevalidator.ErrInvalidFormat)
}
