// Package clock defines the time source abstraction used across the service.
package clock

import "time"

// Clock provides the current time. Injecting it keeps analysis timestamps
// and sync cadence deterministic under test.
type Clock interface {
	Now() time.Time
}
