package pipeline

import (
	"errors"
	"fmt"
)

// Acquisition failures. The core pipeline never runs when one of these
// is returned.
var (
	ErrNotFound        = errors.New("document not found")
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrTooLarge        = errors.New("document too large")
	ErrUnreadable      = errors.New("document unreadable")
)

// ErrProcessing reports an unexpected failure inside the core pipeline.
// It never carries internal details.
var ErrProcessing = errors.New("processing error")

// AcquisitionError wraps a failure to obtain text for a document.
type AcquisitionError struct {
	Source string
	Err    error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// IsAcquisition reports whether err happened before the core pipeline ran.
func IsAcquisition(err error) bool {
	var acqErr *AcquisitionError
	return errors.As(err, &acqErr)
}

func acquisitionErr(source string, kind error, cause error) error {
	if cause == nil {
		return &AcquisitionError{Source: source, Err: kind}
	}
	return &AcquisitionError{Source: source, Err: fmt.Errorf("%w: %v", kind, cause)}
}
