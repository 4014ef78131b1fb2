package categorize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrBreakerOpen is returned while the breaker rejects calls.
var ErrBreakerOpen = errors.New("categorizer unavailable (circuit breaker open)")

// BreakerSettings tunes NewBreaker. Zero values pick defaults.
type BreakerSettings struct {
	Name                string
	ConsecutiveFailures uint32        // failures in a row that open the breaker (default 3)
	Timeout             time.Duration // time the breaker stays open (default 30s)
	MaxRequests         uint32        // probes allowed while half-open (default 1)
}

// Breaker guards a Categorizer with a circuit breaker so a failing oracle is
// not called on every expense.
type Breaker struct {
	next Categorizer
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next.
func NewBreaker(next Categorizer, s BreakerSettings) *Breaker {
	if s.Name == "" {
		s.Name = "categorizer"
	}
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 3
	}
	if s.Timeout == 0 {
		s.Timeout = 30 * time.Second
	}
	if s.MaxRequests == 0 {
		s.MaxRequests = 1
	}

	threshold := s.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &Breaker{next: next, cb: cb}
}

// Categorize calls the wrapped categorizer unless the breaker is open.
func (b *Breaker) Categorize(ctx context.Context, in Input) (Analysis, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Categorize(ctx, in)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Analysis{}, fmt.Errorf("%w: %v", ErrBreakerOpen, err)
	}
	if err != nil {
		return Analysis{}, err
	}
	return result.(Analysis), nil
}

// State reports the breaker state ("closed", "half-open" or "open").
func (b *Breaker) State() string {
	return b.cb.State().String()
}
