package api

import "context"

// Result carries the outcome of one fetch to whoever renders it.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Fetch runs fn and packs its return values into a Result.
func Fetch[T any](ctx context.Context, fn func(context.Context) (T, error)) Result[T] {
	v, err := fn(ctx)
	return Result[T]{Value: v, Err: err}
}
