package services

import (
	"context"
	"strings"

	"github.com/sbilibin2017/remindme-store/internal/apperrors"
	"github.com/sbilibin2017/remindme-store/internal/models"
	"github.com/sbilibin2017/remindme-store/internal/repositories"
)

// FeedbackService manages user-submitted support messages.
type FeedbackService struct {
	repo *repositories.FeedbackRepository
}

func NewFeedbackService(repo *repositories.FeedbackRepository) *FeedbackService {
	return &FeedbackService{repo: repo}
}

// Create stores a new message with status pending.
func (s *FeedbackService) Create(ctx context.Context, input models.CreateFeedbackInput) models.Result[models.Feedback] {
	var problems []string
	if input.UserID <= 0 {
		problems = append(problems, "userId is required")
	}
	if strings.TrimSpace(input.Message) == "" {
		problems = append(problems, "message is required")
	}
	if len(problems) > 0 {
		return models.Fail[models.Feedback](validationError(problems))
	}

	now := nowString()
	row := &models.FeedbackDB{
		UserID:    input.UserID,
		Subject:   strings.TrimSpace(input.Subject),
		Message:   strings.TrimSpace(input.Message),
		Status:    string(models.FeedbackPending),
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.repo.Insert(ctx, row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Fail[models.Feedback](apperrors.New(apperrors.CodeValidation, "user does not exist"))
		}
		return failFrom[models.Feedback](err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the message or a typed not-found error.
func (s *FeedbackService) GetByID(ctx context.Context, id int64) models.Result[models.Feedback] {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failFrom[models.Feedback](err)
	}
	if row == nil {
		return models.Fail[models.Feedback](apperrors.New(apperrors.CodeNotFound, "feedback not found"))
	}
	return models.OK(toFeedback(row))
}

// GetForUser returns a user's messages, newest first.
func (s *FeedbackService) GetForUser(ctx context.Context, userID int64) models.Result[[]models.Feedback] {
	rows, err := s.repo.ListByUser(ctx, userID)
	return toFeedbackList(rows, err)
}

// GetByStatus returns all messages in a status, newest first.
func (s *FeedbackService) GetByStatus(ctx context.Context, status models.FeedbackStatus) models.Result[[]models.Feedback] {
	if !status.Valid() {
		return models.Fail[[]models.Feedback](apperrors.New(apperrors.CodeValidation, "status must be pending, reviewed, or resolved"))
	}
	rows, err := s.repo.ListByStatus(ctx, string(status))
	return toFeedbackList(rows, err)
}

// UpdateStatus sets the status directly. The store does not enforce
// transition ordering.
func (s *FeedbackService) UpdateStatus(ctx context.Context, id int64, status models.FeedbackStatus) models.Result[models.Feedback] {
	if !status.Valid() {
		return models.Fail[models.Feedback](apperrors.New(apperrors.CodeValidation, "status must be pending, reviewed, or resolved"))
	}

	changes, err := s.repo.UpdateStatus(ctx, id, string(status), nowString())
	if err != nil {
		return failFrom[models.Feedback](err)
	}
	if changes == 0 {
		return models.Fail[models.Feedback](apperrors.New(apperrors.CodeNotFound, "feedback not found"))
	}
	return s.GetByID(ctx, id)
}

// Delete removes a message; deleting a nonexistent id reports false.
func (s *FeedbackService) Delete(ctx context.Context, id int64) models.Result[bool] {
	changes, err := s.repo.Delete(ctx, id)
	if err != nil {
		return failFrom[bool](err)
	}
	return models.OK(changes > 0)
}

func toFeedbackList(rows []models.FeedbackDB, err error) models.Result[[]models.Feedback] {
	if err != nil {
		return failFrom[[]models.Feedback](err)
	}
	out := make([]models.Feedback, 0, len(rows))
	for i := range rows {
		out = append(out, toFeedback(&rows[i]))
	}
	return models.OK(out)
}

func toFeedback(row *models.FeedbackDB) models.Feedback {
	return models.Feedback{
		ID:        row.ID,
		UserID:    row.UserID,
		Subject:   row.Subject,
		Message:   row.Message,
		Status:    models.FeedbackStatus(row.Status),
		CreatedAt: parseTime(row.CreatedAt),
		UpdatedAt: parseTime(row.UpdatedAt),
	}
}
