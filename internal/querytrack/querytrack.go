// Package querytrack counts database statements issued while serving a request.
package querytrack

import (
	"context"
	"sync/atomic"
)

// Counter accumulates the number of statements issued on behalf of one request.
// It is safe for concurrent use.
type Counter struct {
	n atomic.Int64
}

// Add records n additional statements.
func (c *Counter) Add(n int64) {
	c.n.Add(n)
}

// Count returns the number of statements recorded so far.
func (c *Counter) Count() int64 {
	return c.n.Load()
}

// Context key for storing the counter in request context
type contextKey string

const counterContextKey contextKey = "query_counter"

// WithCounter attaches a fresh counter to the context.
func WithCounter(ctx context.Context) context.Context {
	return context.WithValue(ctx, counterContextKey, &Counter{})
}

// FromContext retrieves the counter from the context.
func FromContext(ctx context.Context) (*Counter, bool) {
	c, ok := ctx.Value(counterContextKey).(*Counter)
	return c, ok
}

// Add increments the context counter when one is present. Contexts without
// a counter (background jobs, health checks) are silently ignored.
func Add(ctx context.Context, n int64) {
	if c, ok := FromContext(ctx); ok {
		c.Add(n)
	}
}

// Count returns the number recorded on the context counter, or zero when the
// context carries none.
func Count(ctx context.Context) int64 {
	if c, ok := FromContext(ctx); ok {
		return c.Count()
	}
	return 0
}
