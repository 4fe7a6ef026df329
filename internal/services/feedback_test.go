package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/remindme-store/internal/apperrors"
	"github.com/sbilibin2017/remindme-store/internal/models"
)

func TestFeedbackService_Create_DefaultsToPending(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	user := env.mustCreateUser(t, "a@b.com")

	res := env.feedback.Create(ctx, models.CreateFeedbackInput{
		UserID:  user.ID,
		Subject: "  Sync issue  ",
		Message: "  Reminders vanish after restart  ",
	})
	require.True(t, res.Success)
	assert.Equal(t, models.FeedbackPending, res.Data.Status)
	assert.Equal(t, "Sync issue", res.Data.Subject)
	assert.Equal(t, "Reminders vanish after restart", res.Data.Message)
}

func TestFeedbackService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)

	res := env.feedback.Create(ctx, models.CreateFeedbackInput{Message: "   "})
	require.False(t, res.Success)
	assert.Equal(t, apperrors.CodeValidation, res.Err.Code)
	assert.Contains(t, res.Err.Message, "userId")
	assert.Contains(t, res.Err.Message, "message")

	res = env.feedback.Create(ctx, models.CreateFeedbackInput{
		UserID:  9999,
		Message: "Orphan",
	})
	require.False(t, res.Success)
	assert.Equal(t, apperrors.CodeValidation, res.Err.Code)
	assert.Equal(t, "user does not exist", res.Err.Message)
}

func TestFeedbackService_GetForUser_NewestFirst(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	user := env.mustCreateUser(t, "a@b.com")

	first := env.feedback.Create(ctx, models.CreateFeedbackInput{
		UserID: user.ID, Message: "first",
	})
	require.True(t, first.Success)
	time.Sleep(2 * time.Millisecond)
	second := env.feedback.Create(ctx, models.CreateFeedbackInput{
		UserID: user.ID, Message: "second",
	})
	require.True(t, second.Success)

	res := env.feedback.GetForUser(ctx, user.ID)
	require.True(t, res.Success)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "second", res.Data[0].Message)
	assert.Equal(t, "first", res.Data[1].Message)
}

func TestFeedbackService_GetByStatus(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	user := env.mustCreateUser(t, "a@b.com")

	a := env.feedback.Create(ctx, models.CreateFeedbackInput{UserID: user.ID, Message: "a"})
	require.True(t, a.Success)
	b := env.feedback.Create(ctx, models.CreateFeedbackInput{UserID: user.ID, Message: "b"})
	require.True(t, b.Success)

	require.True(t, env.feedback.UpdateStatus(ctx, a.Data.ID, models.FeedbackResolved).Success)

	pending := env.feedback.GetByStatus(ctx, models.FeedbackPending)
	require.True(t, pending.Success)
	require.Len(t, pending.Data, 1)
	assert.Equal(t, b.Data.ID, pending.Data[0].ID)

	resolved := env.feedback.GetByStatus(ctx, models.FeedbackResolved)
	require.True(t, resolved.Success)
	require.Len(t, resolved.Data, 1)
	assert.Equal(t, a.Data.ID, resolved.Data[0].ID)

	invalid := env.feedback.GetByStatus(ctx, models.FeedbackStatus("archived"))
	require.False(t, invalid.Success)
	assert.Equal(t, apperrors.CodeValidation, invalid.Err.Code)
}

func TestFeedbackService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	user := env.mustCreateUser(t, "a@b.com")
	created := env.feedback.Create(ctx, models.CreateFeedbackInput{UserID: user.ID, Message: "m"})
	require.True(t, created.Success)

	res := env.feedback.UpdateStatus(ctx, created.Data.ID, models.FeedbackReviewed)
	require.True(t, res.Success)
	assert.Equal(t, models.FeedbackReviewed, res.Data.Status)
	assert.True(t, res.Data.UpdatedAt.After(created.Data.CreatedAt))

	missing := env.feedback.UpdateStatus(ctx, 9999, models.FeedbackReviewed)
	require.False(t, missing.Success)
	assert.Equal(t, apperrors.CodeNotFound, missing.Err.Code)

	invalid := env.feedback.UpdateStatus(ctx, created.Data.ID, models.FeedbackStatus("archived"))
	require.False(t, invalid.Success)
	assert.Equal(t, apperrors.CodeValidation, invalid.Err.Code)
}

func TestFeedbackService_Delete(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	user := env.mustCreateUser(t, "a@b.com")
	created := env.feedback.Create(ctx, models.CreateFeedbackInput{UserID: user.ID, Message: "m"})
	require.True(t, created.Success)

	res := env.feedback.Delete(ctx, created.Data.ID)
	require.True(t, res.Success)
	assert.True(t, res.Data)

	again := env.feedback.Delete(ctx, created.Data.ID)
	require.True(t, again.Success)
	assert.False(t, again.Data)

	missing := env.feedback.GetByID(ctx, created.Data.ID)
	require.False(t, missing.Success)
	assert.Equal(t, apperrors.CodeNotFound, missing.Err.Code)
}
