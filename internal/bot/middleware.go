// internal/bot/middleware.go
package bot

import "context"

// NextFunc continues the turn pipeline.
type NextFunc func(ctx context.Context) error

// Middleware intercepts turn processing. Implementations must call next
// exactly once unless they intend to short-circuit the turn.
type Middleware interface {
	OnTurn(ctx context.Context, tc *TurnContext, next NextFunc) error
}

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc func(ctx context.Context, tc *TurnContext, next NextFunc) error

func (f MiddlewareFunc) OnTurn(ctx context.Context, tc *TurnContext, next NextFunc) error {
	return f(ctx, tc, next)
}

// Chain runs registered middleware in order around a final handler.
type Chain struct {
	middleware []Middleware
}

// Use appends middleware to the chain.
func (c *Chain) Use(mw ...Middleware) {
	c.middleware = append(c.middleware, mw...)
}

// Run invokes the chain; the final function is the innermost handler.
func (c *Chain) Run(ctx context.Context, tc *TurnContext, final NextFunc) error {
	next := final
	for i := len(c.middleware) - 1; i >= 0; i-- {
		mw := c.middleware[i]
		inner := next
		next = func(ctx context.Context) error {
			return mw.OnTurn(ctx, tc, inner)
		}
	}
	return next(ctx)
}
