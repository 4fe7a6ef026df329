package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/remindme-store/internal/models"
	"github.com/sbilibin2017/remindme-store/internal/repositories"
	"github.com/sbilibin2017/remindme-store/internal/services"
	"github.com/sbilibin2017/remindme-store/internal/storage"
)

// testEnv wires the full service stack over an isolated in-memory store.
type testEnv struct {
	st        *storage.Storage
	users     *services.UserService
	reminders *services.ReminderService
	feedback  *services.FeedbackService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	st := storage.New(":memory:")
	require.NoError(t, st.Initialize(context.Background()))
	t.Cleanup(func() { st.Close() })

	return &testEnv{
		st:        st,
		users:     services.NewUserService(repositories.NewUserRepository(st)),
		reminders: services.NewReminderService(repositories.NewReminderRepository(st)),
		feedback:  services.NewFeedbackService(repositories.NewFeedbackRepository(st)),
	}
}

func (e *testEnv) mustCreateUser(t *testing.T, email string) models.User {
	t.Helper()

	res := e.users.Create(context.Background(), models.CreateUserInput{
		Email:     email,
		Password:  "Abcd1234",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.True(t, res.Success, "user create failed: %v", res.Err)
	return res.Data
}

func (e *testEnv) mustCreateReminder(t *testing.T, userID int64, title, dueDate string) models.Reminder {
	t.Helper()

	res := e.reminders.Create(context.Background(), models.CreateReminderInput{
		UserID:  userID,
		Title:   title,
		DueDate: dueDate,
	})
	require.True(t, res.Success, "reminder create failed: %v", res.Err)
	return res.Data
}

func (e *testEnv) countRows(t *testing.T, table string) int {
	t.Helper()

	var count int
	_, err := e.st.Get(context.Background(), &count, `SELECT COUNT(*) FROM `+table)
	require.NoError(t, err)
	return count
}
