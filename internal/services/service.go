// Package services holds the entity services: thin CRUD façades over the
// storage gateway that translate between storage and domain representations
// (0/1 integers vs booleans, RFC3339 strings vs time.Time) and surface
// expected business failures as coded Result errors instead of panics.
package services

import (
	"errors"
	"strings"
	"time"

	"github.com/sbilibin2017/remindme-store/internal/apperrors"
	"github.com/sbilibin2017/remindme-store/internal/models"
)

// nowString returns the current UTC time in the storage timestamp format.
// RFC3339Nano keeps updated_at strictly greater than created_at even for
// back-to-back writes.
func nowString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseTimePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := parseTime(*s)
	return &t
}

// failFrom converts any error into a failed result, preserving coded errors
// and folding engine failures into the storage code.
func failFrom[T any](err error) models.Result[T] {
	var ae *apperrors.AppError
	if errors.As(err, &ae) {
		return models.Fail[T](ae)
	}
	return models.Fail[T](apperrors.Wrap(err, apperrors.CodeStorage, "storage operation failed"))
}

func validationError(problems []string) *apperrors.AppError {
	return apperrors.New(apperrors.CodeValidation, strings.Join(problems, "; "))
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
