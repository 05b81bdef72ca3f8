// ABOUTME: Not-found error returned by the gateway for unknown metric ids.
// ABOUTME: Matches store.ErrNotFound so callers can test with errors.Is.
package gateway

import (
	"fmt"

	"github.com/harperreed/healthdash/internal/store"
)

// ErrNotFound matches any *NotFoundError via errors.Is.
var ErrNotFound = store.ErrNotFound

// NotFoundError reports a metric id that exists neither in the live store
// nor in the synthetic roster.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("metric %d not found", e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == store.ErrNotFound
}
