package classify

import (
	"context"
	"fmt"
	"time"
)

// ClassificationError reports a transport failure or an unusable response.
type ClassificationError struct {
	Model string
	Err   error
}

func (e *ClassificationError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("classification with %s failed: %v", e.Model, e.Err)
	}
	return fmt.Sprintf("classification failed: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// ClassificationTimeout reports that the model did not answer in time.
type ClassificationTimeout struct {
	Model string
	After time.Duration
}

func (e *ClassificationTimeout) Error() string {
	return fmt.Sprintf("classification with %s timed out after %s", e.Model, e.After)
}

func (e *ClassificationTimeout) Unwrap() error { return context.DeadlineExceeded }
