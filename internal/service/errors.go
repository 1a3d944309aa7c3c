package service

import (
	"errors"
	"fmt"
)

// Error kinds returned by the services. Callers match them with errors.Is; the wrapped
// message carries detail for logs only.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrInvalidOrExpired = errors.New("share link is invalid or has expired")
)

var (
	ErrInvalidID = fmt.Errorf("%w: id must be greater than 0", ErrInvalidArgument)
	ErrReaderNil = fmt.Errorf("%w: reader is nil", ErrInvalidArgument)
)

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
