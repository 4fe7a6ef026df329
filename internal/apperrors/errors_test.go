package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, CodeStorage, "failed to insert user")

	assert.Contains(t, err.Error(), "storage")
	assert.Contains(t, err.Error(), "failed to insert user")
	assert.Contains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, cause)
}

func TestAppError_NewWithoutCause(t *testing.T) {
	err := New(CodeNotFound, "user not found")

	assert.Equal(t, "not_found: user not found", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrap_NilCause(t *testing.T) {
	err := Wrap(nil, CodeValidation, "bad input")
	assert.Nil(t, err.Err)
	assert.Equal(t, CodeValidation, err.Code)
}

func TestIsCode(t *testing.T) {
	err := New(CodeConflict, "email taken")
	wrapped := fmt.Errorf("outer: %w", err)

	assert.True(t, IsCode(err, CodeConflict))
	assert.True(t, IsCode(wrapped, CodeConflict))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), CodeConflict))
}

func TestWithMeta(t *testing.T) {
	err := New(CodeStorage, "query failed").
		WithMeta("query", "SELECT 1").
		WithMeta("args", []any{42})

	assert.Equal(t, "SELECT 1", err.Meta["query"])
	assert.Len(t, err.Meta, 2)
}

func TestFrom(t *testing.T) {
	coded := New(CodeNoUpdates, "no fields to update")
	assert.Same(t, coded, From(coded))

	plain := errors.New("engine exploded")
	converted := From(plain)
	assert.Equal(t, CodeStorage, converted.Code)
	assert.ErrorIs(t, converted, plain)
}
