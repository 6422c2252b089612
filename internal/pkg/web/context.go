package web

import (
	"context"
	"fmt"
)

type paramsKey struct{}

// WithParams stores a decoded request payload in ctx.
//
//nolint:ireturn //This function needs to return a context.
func WithParams(ctx context.Context, params any) context.Context {
	return context.WithValue(ctx, paramsKey{}, params)
}

// ParamsFromContext returns the payload stored by WithParams if it has type T.
//
//nolint:ireturn //This is a generic function.
func ParamsFromContext[T any](ctx context.Context) (T, error) {
	val := ctx.Value(paramsKey{})
	params, ok := val.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("params: %v is not a %T", val, zero)
	}
	return params, nil
}
