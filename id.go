package braid

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces identifiers for tool executions whose start frame
// carried none. Injected as a capability so tests can be deterministic.
type IDGenerator func() string

// Clock supplies the current time to the reducer. Injected for
// deterministic duration and timestamp testing.
type Clock func() time.Time

// NewToolID is the default IDGenerator: a millisecond timestamp plus a
// random suffix, unique enough to key the active-tool mapping within a
// session.
func NewToolID() string {
	return fmt.Sprintf("tool_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
