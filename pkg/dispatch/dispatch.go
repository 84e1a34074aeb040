package dispatch

import (
	"context"

	"github.com/teslashibe/go-dancebot/pkg/catalog"
)

// Dispatcher sends one chosen action to its destination.
// Implementations: Serial (real hardware), Trace (simulated), Mock (tests).
type Dispatcher interface {
	// Dispatch emits the given action. It returns once the command is fully
	// handed off (real: frame written to the serial link; simulated: trace
	// recorded), or an error when that was not possible.
	Dispatch(ctx context.Context, action *catalog.ActionRecord) error

	// Close releases any underlying resources.
	Close() error
}
