package services_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/remindme-store/internal/apperrors"
	"github.com/sbilibin2017/remindme-store/internal/models"
)

func TestUserService_Create_LowercasesEmail(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)

	res := env.users.Create(ctx, models.CreateUserInput{
		Email:     "Ada@Example.COM",
		Password:  "Abcd1234",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.True(t, res.Success)
	assert.Equal(t, "ada@example.com", res.Data.Email)
	assert.NotZero(t, res.Data.ID)
	assert.False(t, res.Data.CreatedAt.IsZero())
	assert.Nil(t, res.Data.LastLoginAt)
}

func TestUserService_Create_DuplicateEmailCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	env.mustCreateUser(t, "a@b.com")

	res := env.users.Create(ctx, models.CreateUserInput{
		Email:     "A@B.COM",
		Password:  "Abcd1234",
		FirstName: "Eve",
		LastName:  "Clone",
	})
	require.False(t, res.Success)
	assert.Equal(t, apperrors.CodeConflict, res.Err.Code)
	assert.Equal(t, 1, env.countRows(t, "users"), "failed registration must not add a row")
}

func TestUserService_Create_ReportsAllValidationProblems(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)

	res := env.users.Create(ctx, models.CreateUserInput{
		Email:    "not-an-email",
		Password: "short",
	})
	require.False(t, res.Success)
	assert.Equal(t, apperrors.CodeValidation, res.Err.Code)
	assert.Contains(t, res.Err.Message, "email")
	assert.Contains(t, res.Err.Message, "8 characters")
	assert.Contains(t, res.Err.Message, "uppercase")
	assert.Contains(t, res.Err.Message, "first name")
	assert.Contains(t, res.Err.Message, "last name")
	assert.Equal(t, 0, env.countRows(t, "users"))
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	created := env.mustCreateUser(t, "a@b.com")

	res := env.users.Authenticate(ctx, "A@b.com", "Abcd1234")
	require.True(t, res.Success)
	assert.Equal(t, created.ID, res.Data.ID)
	require.NotNil(t, res.Data.LastLoginAt, "successful login stamps last_login_at")

	bad := env.users.Authenticate(ctx, "a@b.com", "Wrong1234")
	require.False(t, bad.Success)
	assert.Equal(t, apperrors.CodeNotFound, bad.Err.Code)
	assert.Equal(t, "invalid email or password", bad.Err.Message)

	unknown := env.users.Authenticate(ctx, "nobody@b.com", "Abcd1234")
	require.False(t, unknown.Success)
	assert.Equal(t, bad.Err.Message, unknown.Err.Message,
		"unknown email and wrong password must be indistinguishable")
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)

	res := env.users.GetByID(ctx, 9999)
	require.False(t, res.Success)
	assert.Equal(t, apperrors.CodeNotFound, res.Err.Code)
}

func TestUserService_Update_RecomputesCompletionScore(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	created := env.mustCreateUser(t, "a@b.com")

	// Two of eight profile fields filled at registration.
	assert.Equal(t, 25, created.ProfileCompletionScore)

	phone := "+370600000"
	bio := "Final-year CS student"
	res := env.users.Update(ctx, created.ID, models.UserPatch{Phone: &phone, Bio: &bio})
	require.True(t, res.Success)
	assert.Equal(t, 50, res.Data.ProfileCompletionScore)
	assert.Equal(t, phone, res.Data.Phone)
	assert.True(t, res.Data.UpdatedAt.After(created.CreatedAt),
		"updatedAt must move forward on profile update")
}

func TestUserService_Update_EmptyPatch(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	created := env.mustCreateUser(t, "a@b.com")

	res := env.users.Update(ctx, created.ID, models.UserPatch{})
	require.False(t, res.Success)
	assert.Equal(t, apperrors.CodeNoUpdates, res.Err.Code)

	// The row was not touched.
	after := env.users.GetByID(ctx, created.ID)
	require.True(t, after.Success)
	assert.Equal(t, created.UpdatedAt, after.Data.UpdatedAt)
}

func TestUserService_Update_ValidatesLengths(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	created := env.mustCreateUser(t, "a@b.com")

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	bio := string(long)
	res := env.users.Update(ctx, created.ID, models.UserPatch{Bio: &bio})
	require.False(t, res.Success)
	assert.Equal(t, apperrors.CodeValidation, res.Err.Code)
}

func TestUserService_Delete_CascadesToOwnedRows(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	user := env.mustCreateUser(t, "a@b.com")
	env.mustCreateReminder(t, user.ID, "X", "2099-01-01")

	fb := env.feedback.Create(ctx, models.CreateFeedbackInput{
		UserID: user.ID, Subject: "Help", Message: "It broke",
	})
	require.True(t, fb.Success)

	res := env.users.Delete(ctx, user.ID)
	require.True(t, res.Success)
	assert.True(t, res.Data)

	reminders := env.reminders.GetForUser(ctx, user.ID)
	require.True(t, reminders.Success)
	assert.Empty(t, reminders.Data)

	feedback := env.feedback.GetForUser(ctx, user.ID)
	require.True(t, feedback.Success)
	assert.Empty(t, feedback.Data)

	// Deleting the same id again is idempotent, not an error.
	again := env.users.Delete(ctx, user.ID)
	require.True(t, again.Success)
	assert.False(t, again.Data)
}

func TestUserService_ManyUsersDistinctEmails(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)

	for i := 0; i < 5; i++ {
		env.mustCreateUser(t, "user"+strconv.Itoa(i)+"@b.com")
	}
	assert.Equal(t, 5, env.countRows(t, "users"))

	res := env.users.GetByEmail(ctx, "user3@b.com")
	require.True(t, res.Success)
	assert.Equal(t, "user3@b.com", res.Data.Email)
}
