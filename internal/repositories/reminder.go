package repositories

import (
	"context"
	"strings"

	"github.com/sbilibin2017/remindme-store/internal/logger"
	"github.com/sbilibin2017/remindme-store/internal/models"
	"github.com/sbilibin2017/remindme-store/internal/storage"
)

const reminderColumns = `id, user_id, title, description, due_date,
	is_completed, priority, created_at, updated_at`

// ReminderRepository provides row-level access to the reminders table,
// including the derived due-date window queries.
type ReminderRepository struct {
	st *storage.Storage
}

func NewReminderRepository(st *storage.Storage) *ReminderRepository {
	return &ReminderRepository{st: st}
}

func (r *ReminderRepository) Insert(ctx context.Context, row *models.ReminderDB) (int64, error) {
	res, err := r.st.Exec(ctx, `
		INSERT INTO reminders (user_id, title, description, due_date,
			is_completed, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		row.UserID, row.Title, row.Description, row.DueDate,
		row.IsCompleted, row.Priority, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}

	logger.Log.Infow("reminder insert", "user_id", row.UserID, "id", res.LastInsertID)
	return res.LastInsertID, nil
}

func (r *ReminderRepository) GetByID(ctx context.Context, id int64) (*models.ReminderDB, error) {
	var row models.ReminderDB
	found, err := r.st.Get(ctx, &row,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &row, nil
}

// ListByUser returns all reminders for a user, soonest due first.
func (r *ReminderRepository) ListByUser(ctx context.Context, userID int64) ([]models.ReminderDB, error) {
	rows := []models.ReminderDB{}
	err := r.st.Select(ctx, &rows,
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE user_id = ? ORDER BY due_date ASC`, userID)
	return rows, err
}

// ListPending returns incomplete reminders, soonest due first.
func (r *ReminderRepository) ListPending(ctx context.Context, userID int64) ([]models.ReminderDB, error) {
	rows := []models.ReminderDB{}
	err := r.st.Select(ctx, &rows,
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE user_id = ? AND is_completed = 0 ORDER BY due_date ASC`, userID)
	return rows, err
}

// ListOverdue returns incomplete reminders whose due date is strictly
// before today.
func (r *ReminderRepository) ListOverdue(ctx context.Context, userID int64) ([]models.ReminderDB, error) {
	rows := []models.ReminderDB{}
	err := r.st.Select(ctx, &rows,
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE user_id = ? AND is_completed = 0 AND date(due_date) < date('now')
		 ORDER BY due_date ASC`, userID)
	return rows, err
}

// ListToday returns reminders due today.
func (r *ReminderRepository) ListToday(ctx context.Context, userID int64) ([]models.ReminderDB, error) {
	rows := []models.ReminderDB{}
	err := r.st.Select(ctx, &rows,
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE user_id = ? AND date(due_date) = date('now')
		 ORDER BY due_date ASC`, userID)
	return rows, err
}

// ListWeek returns reminders whose due date falls within the trailing
// seven-day window, today included.
func (r *ReminderRepository) ListWeek(ctx context.Context, userID int64) ([]models.ReminderDB, error) {
	rows := []models.ReminderDB{}
	err := r.st.Select(ctx, &rows,
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE user_id = ? AND date(due_date) >= date('now', '-7 day')
		 ORDER BY due_date ASC`, userID)
	return rows, err
}

// Update writes only the fields set in the patch and bumps updated_at.
// The caller guarantees a non-empty patch.
func (r *ReminderRepository) Update(ctx context.Context, id int64, patch models.ReminderPatch, now string) (int64, error) {
	var set []string
	var args []any
	add := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.DueDate != nil {
		add("due_date", *patch.DueDate)
	}
	if patch.IsCompleted != nil {
		completed := 0
		if *patch.IsCompleted {
			completed = 1
		}
		add("is_completed", completed)
	}
	if patch.Priority != nil {
		add("priority", string(*patch.Priority))
	}
	add("updated_at", now)
	args = append(args, id)

	res, err := r.st.Exec(ctx,
		`UPDATE reminders SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return 0, err
	}

	logger.Log.Infow("reminder update", "id", id, "changes", res.Changes)
	return res.Changes, nil
}

func (r *ReminderRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.st.Exec(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.Changes, nil
}

// CountStats computes all derived reminder counts for a user in one query,
// the single owner of these numbers.
func (r *ReminderRepository) CountStats(ctx context.Context, userID int64) (models.ReminderStats, error) {
	var stats models.ReminderStats
	_, err := r.st.Get(ctx, &stats, `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_completed = 1 THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN is_completed = 0 THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN date(due_date) >= date('now', '-7 day') THEN 1 ELSE 0 END), 0) AS this_week
		FROM reminders WHERE user_id = ?`, userID)
	return stats, err
}
