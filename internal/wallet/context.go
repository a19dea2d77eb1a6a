package wallet

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying the session façade
func NewContext(ctx context.Context, f *Facade) context.Context {
	return context.WithValue(ctx, contextKey{}, f)
}

// FromContext returns the façade stored in ctx, or ErrNoSession
func FromContext(ctx context.Context) (*Facade, error) {
	f, ok := ctx.Value(contextKey{}).(*Facade)
	if !ok || f == nil {
		return nil, ErrNoSession
	}
	return f, nil
}

// MustFromContext is like FromContext but panics when the façade is missing.
// Reaching the session outside its scope is a wiring bug, not a runtime condition.
func MustFromContext(ctx context.Context) *Facade {
	f, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return f
}
