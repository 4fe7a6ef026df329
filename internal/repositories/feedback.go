package repositories

import (
	"context"

	"github.com/sbilibin2017/remindme-store/internal/logger"
	"github.com/sbilibin2017/remindme-store/internal/models"
	"github.com/sbilibin2017/remindme-store/internal/storage"
)

const feedbackColumns = `id, user_id, subject, message, status, created_at, updated_at`

// FeedbackRepository provides row-level access to the feedback table.
type FeedbackRepository struct {
	st *storage.Storage
}

func NewFeedbackRepository(st *storage.Storage) *FeedbackRepository {
	return &FeedbackRepository{st: st}
}

func (r *FeedbackRepository) Insert(ctx context.Context, row *models.FeedbackDB) (int64, error) {
	res, err := r.st.Exec(ctx, `
		INSERT INTO feedback (user_id, subject, message, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		row.UserID, row.Subject, row.Message, row.Status, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}

	logger.Log.Infow("feedback insert", "user_id", row.UserID, "id", res.LastInsertID)
	return res.LastInsertID, nil
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*models.FeedbackDB, error) {
	var row models.FeedbackDB
	found, err := r.st.Get(ctx, &row,
		`SELECT `+feedbackColumns+` FROM feedback WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &row, nil
}

// ListByUser returns a user's feedback, newest first.
func (r *FeedbackRepository) ListByUser(ctx context.Context, userID int64) ([]models.FeedbackDB, error) {
	rows := []models.FeedbackDB{}
	err := r.st.Select(ctx, &rows,
		`SELECT `+feedbackColumns+` FROM feedback
		 WHERE user_id = ? ORDER BY created_at DESC`, userID)
	return rows, err
}

// ListByStatus returns all feedback in a given status, newest first,
// across users (the support review view).
func (r *FeedbackRepository) ListByStatus(ctx context.Context, status string) ([]models.FeedbackDB, error) {
	rows := []models.FeedbackDB{}
	err := r.st.Select(ctx, &rows,
		`SELECT `+feedbackColumns+` FROM feedback
		 WHERE status = ? ORDER BY created_at DESC`, status)
	return rows, err
}

// UpdateStatus sets the status directly and bumps updated_at.
func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id int64, status, now string) (int64, error) {
	res, err := r.st.Exec(ctx,
		`UPDATE feedback SET status = ?, updated_at = ? WHERE id = ?`, status, now, id)
	if err != nil {
		return 0, err
	}

	logger.Log.Infow("feedback status update", "id", id, "status", status, "changes", res.Changes)
	return res.Changes, nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.st.Exec(ctx, `DELETE FROM feedback WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.Changes, nil
}
