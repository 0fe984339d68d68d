package persist

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var (
	// ErrIO is returned when a snapshot cannot be read or written.
	ErrIO = errors.New("storage i/o failed")

	// ErrFormat is returned when a snapshot is readable but is not a valid
	// node-link graph document.
	ErrFormat = errors.New("malformed graph document")
)

// IOError wraps the underlying OS or object-store error.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrFormat, e.Reason)
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFormat}
	}
	return []error{ErrFormat, e.Err}
}

// IsNotExist reports whether err means the snapshot does not exist, on disk
// or in the bucket.
func IsNotExist(err error) bool {
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		return false
	}
	var noKey *types.NoSuchKey
	return errors.Is(ioErr.Err, fs.ErrNotExist) || errors.As(ioErr.Err, &noKey)
}
