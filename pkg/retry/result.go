package retry

import "github.com/rohmanhakim/recipe-crawler/pkg/failure"

// Result carries the outcome of a Retry call: the last produced value,
// the classified error if every attempt failed or the call was rejected
// outright, and the number of attempts actually made.
type Result[T any] struct {
	value    T
	err      failure.ClassifiedError
	attempts int
}

// NewSuccessResult builds a Result for a function call that returned
// without error on the given attempt.
func NewSuccessResult[T any](value T, attempts int) Result[T] {
	return Result[T]{
		value:    value,
		attempts: attempts,
	}
}

func (r Result[T]) Value() T {
	return r.value
}

func (r Result[T]) Err() failure.ClassifiedError {
	return r.err
}

func (r Result[T]) Attempts() int {
	return r.attempts
}

func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

func (r Result[T]) IsFailure() bool {
	return r.err != nil
}
