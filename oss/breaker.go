package oss

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig tunes the circuit breaker around a storage backend.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
	OnStateChange    func(name string, from, to gobreaker.State)
}

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("storage temporarily unavailable")

// Breaker guards write operations of an Interface with a circuit breaker.
// Missing-object results do not count as failures.
type Breaker struct {
	Interface
	cb *gobreaker.CircuitBreaker
}

// WithBreaker wraps next with a circuit breaker.
func WithBreaker(next Interface, c BreakerConfig) *Breaker {
	threshold := c.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	name := c.Name
	if name == "" {
		name = "storage"
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: c.MaxRequests,
		Interval:    c.Interval,
		Timeout:     c.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: c.OnStateChange,
	})
	return &Breaker{Interface: next, cb: cb}
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

func (b *Breaker) execute(fn func() (any, error)) (any, error) {
	v, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	return v, err
}

// Put uploads through the breaker.
func (b *Breaker) Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) (*Object, error) {
	v, err := b.execute(func() (any, error) {
		return b.Interface.Put(ctx, path, r, size, contentType)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Object), nil
}

// Delete removes through the breaker.
func (b *Breaker) Delete(ctx context.Context, path string) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.Interface.Delete(ctx, path)
	})
	return err
}
