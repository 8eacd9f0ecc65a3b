package checkpoint

import (
	"fmt"

	"github.com/yourusername/checkpoint/internal/clock"
)

// Option is a functional option for configuring a Limiter.
type Option func(*Limiter) error

// WithClock sets the clock the limiter reads. The default is the
// system clock; tests inject a fake to advance time deterministically.
func WithClock(c clock.Clock) Option {
	return func(l *Limiter) error {
		if c == nil {
			return fmt.Errorf("%w: clock cannot be nil", ErrInvalidConfig)
		}
		l.clock = c
		return nil
	}
}
