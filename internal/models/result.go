package models

import "github.com/sbilibin2017/remindme-store/internal/apperrors"

// Result is the tagged success/error value returned by every entity service
// operation. Callers must branch on Success; Data is only meaningful when
// Success is true, Err only when it is false.
type Result[T any] struct {
	Success bool
	Data    T
	Err     *apperrors.AppError
}

// OK wraps data in a successful result.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail wraps a coded error in a failed result.
func Fail[T any](err *apperrors.AppError) Result[T] {
	return Result[T]{Success: false, Err: err}
}
