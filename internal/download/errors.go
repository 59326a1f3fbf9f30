package download

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrPermissionDenied = errors.New("storage permission denied")
	ErrDownload         = errors.New("download failed")
	ErrInvalidURL       = errors.New("invalid image URL")
)

// Error describes a failed transfer. A zero StatusCode means the request
// never produced a response.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes every *Error match ErrDownload.
func (e *Error) Is(target error) bool {
	return target == ErrDownload
}
