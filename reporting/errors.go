package reporting

import (
	"errors"
	"fmt"
)

// ErrInvalidHeader matches any *InvalidHeaderError with errors.Is.
var ErrInvalidHeader = errors.New("invalid header")

// InvalidHeaderError is returned when a Report-To or NEL header can't
// be decoded.  Nothing from a header that fails is ever installed.
type InvalidHeaderError struct {
	Header string // "Report-To" or "NEL"
	Reason string
	Err    error // underlying parse error, if any
}

func (e *InvalidHeaderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %q header: %s: %v", e.Header, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid %q header: %s", e.Header, e.Reason)
}

func (e *InvalidHeaderError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrInvalidHeader).
func (e *InvalidHeaderError) Is(target error) bool {
	return target == ErrInvalidHeader
}
