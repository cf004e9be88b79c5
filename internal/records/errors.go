package records

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a lookup for a record that does not exist.
var ErrNotFound = errors.New("record not found")

// ValidationError marks a record that failed validation. During bulk
// import it is treated as a per-record failure: the record is skipped
// and the batch continues. Any other error aborts the batch.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a per-record validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
