package services

import (
	"context"
	"strings"

	"github.com/sbilibin2017/remindme-store/internal/apperrors"
	"github.com/sbilibin2017/remindme-store/internal/models"
	"github.com/sbilibin2017/remindme-store/internal/repositories"
)

// ReminderService manages reminders and owns every derived reminder query,
// including the statistics consumed by the session manager and profile UI.
type ReminderService struct {
	repo *repositories.ReminderRepository
}

func NewReminderService(repo *repositories.ReminderRepository) *ReminderService {
	return &ReminderService{repo: repo}
}

// Create stores a new reminder. Priority defaults to medium; a reference to
// a missing user surfaces as a validation error, not an engine failure.
func (s *ReminderService) Create(ctx context.Context, input models.CreateReminderInput) models.Result[models.Reminder] {
	var problems []string
	if input.UserID <= 0 {
		problems = append(problems, "userId is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(input.DueDate) == "" {
		problems = append(problems, "due date is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		problems = append(problems, "priority must be low, medium, or high")
	}
	if len(problems) > 0 {
		return models.Fail[models.Reminder](validationError(problems))
	}

	now := nowString()
	row := &models.ReminderDB{
		UserID:      input.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		DueDate:     input.DueDate,
		IsCompleted: 0,
		Priority:    string(priority),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := s.repo.Insert(ctx, row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Fail[models.Reminder](apperrors.New(apperrors.CodeValidation, "user does not exist"))
		}
		return failFrom[models.Reminder](err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the reminder or a typed not-found error.
func (s *ReminderService) GetByID(ctx context.Context, id int64) models.Result[models.Reminder] {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failFrom[models.Reminder](err)
	}
	if row == nil {
		return models.Fail[models.Reminder](apperrors.New(apperrors.CodeNotFound, "reminder not found"))
	}
	return models.OK(toReminder(row))
}

// GetForUser returns all of a user's reminders, soonest due first.
func (s *ReminderService) GetForUser(ctx context.Context, userID int64) models.Result[[]models.Reminder] {
	rows, err := s.repo.ListByUser(ctx, userID)
	return toReminderList(rows, err)
}

// GetPending returns incomplete reminders.
func (s *ReminderService) GetPending(ctx context.Context, userID int64) models.Result[[]models.Reminder] {
	rows, err := s.repo.ListPending(ctx, userID)
	return toReminderList(rows, err)
}

// GetOverdue returns incomplete reminders due strictly before today.
// A completed reminder with a past due date is excluded.
func (s *ReminderService) GetOverdue(ctx context.Context, userID int64) models.Result[[]models.Reminder] {
	rows, err := s.repo.ListOverdue(ctx, userID)
	return toReminderList(rows, err)
}

// GetToday returns reminders due today.
func (s *ReminderService) GetToday(ctx context.Context, userID int64) models.Result[[]models.Reminder] {
	rows, err := s.repo.ListToday(ctx, userID)
	return toReminderList(rows, err)
}

// GetWeek returns reminders due within the trailing seven-day window.
func (s *ReminderService) GetWeek(ctx context.Context, userID int64) models.Result[[]models.Reminder] {
	rows, err := s.repo.ListWeek(ctx, userID)
	return toReminderList(rows, err)
}

func toReminderList(rows []models.ReminderDB, err error) models.Result[[]models.Reminder] {
	if err != nil {
		return failFrom[[]models.Reminder](err)
	}
	out := make([]models.Reminder, 0, len(rows))
	for i := range rows {
		out = append(out, toReminder(&rows[i]))
	}
	return models.OK(out)
}

// Update applies a typed partial update and bumps updated_at. An empty
// patch is a typed no-updates error.
func (s *ReminderService) Update(ctx context.Context, id int64, patch models.ReminderPatch) models.Result[models.Reminder] {
	if patch.IsEmpty() {
		return models.Fail[models.Reminder](apperrors.New(apperrors.CodeNoUpdates, "no fields to update"))
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return models.Fail[models.Reminder](apperrors.New(apperrors.CodeValidation, "priority must be low, medium, or high"))
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return models.Fail[models.Reminder](apperrors.New(apperrors.CodeValidation, "title cannot be empty"))
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failFrom[models.Reminder](err)
	}
	if current == nil {
		return models.Fail[models.Reminder](apperrors.New(apperrors.CodeNotFound, "reminder not found"))
	}

	if _, err := s.repo.Update(ctx, id, patch, nowString()); err != nil {
		return failFrom[models.Reminder](err)
	}
	return s.GetByID(ctx, id)
}

// ToggleCompleted flips the completion flag.
func (s *ReminderService) ToggleCompleted(ctx context.Context, id int64) models.Result[models.Reminder] {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failFrom[models.Reminder](err)
	}
	if current == nil {
		return models.Fail[models.Reminder](apperrors.New(apperrors.CodeNotFound, "reminder not found"))
	}

	completed := current.IsCompleted == 0
	return s.Update(ctx, id, models.ReminderPatch{IsCompleted: &completed})
}

// Delete removes a reminder; deleting a nonexistent id reports false.
func (s *ReminderService) Delete(ctx context.Context, id int64) models.Result[bool] {
	changes, err := s.repo.Delete(ctx, id)
	if err != nil {
		return failFrom[bool](err)
	}
	return models.OK(changes > 0)
}

// GetStats computes the derived reminder counts for a user.
func (s *ReminderService) GetStats(ctx context.Context, userID int64) models.Result[models.ReminderStats] {
	stats, err := s.repo.CountStats(ctx, userID)
	if err != nil {
		return failFrom[models.ReminderStats](err)
	}
	return models.OK(stats)
}

func toReminder(row *models.ReminderDB) models.Reminder {
	return models.Reminder{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       row.Title,
		Description: row.Description,
		DueDate:     row.DueDate,
		IsCompleted: row.IsCompleted != 0,
		Priority:    models.Priority(row.Priority),
		CreatedAt:   parseTime(row.CreatedAt),
		UpdatedAt:   parseTime(row.UpdatedAt),
	}
}
