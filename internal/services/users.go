package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sbilibin2017/remindme-store/internal/apperrors"
	"github.com/sbilibin2017/remindme-store/internal/credentials"
	"github.com/sbilibin2017/remindme-store/internal/logger"
	"github.com/sbilibin2017/remindme-store/internal/models"
	"github.com/sbilibin2017/remindme-store/internal/repositories"
)

const (
	maxNameLength = 50
	maxBioLength  = 500
)

// UserService manages accounts: registration, authentication, profile
// updates, and deletion. Password hashes never leave this layer.
type UserService struct {
	repo *repositories.UserRepository
}

func NewUserService(repo *repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Create registers a new account. Emails are lowercased; duplicates yield a
// conflict. The persisted row is re-read and returned in domain shape.
func (s *UserService) Create(ctx context.Context, input models.CreateUserInput) models.Result[models.User] {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var problems []string
	if !credentials.ValidateEmail(email) {
		problems = append(problems, "invalid email address")
	}
	if ok, violations := credentials.ValidatePassword(input.Password); !ok {
		problems = append(problems, violations...)
	}
	if strings.TrimSpace(input.FirstName) == "" {
		problems = append(problems, "first name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		problems = append(problems, "last name is required")
	}
	if len(input.FirstName) > maxNameLength || len(input.LastName) > maxNameLength {
		problems = append(problems, fmt.Sprintf("names must be at most %d characters", maxNameLength))
	}
	if len(problems) > 0 {
		return models.Fail[models.User](validationError(problems))
	}

	hash, err := credentials.HashPassword(input.Password)
	if err != nil {
		return failFrom[models.User](err)
	}

	now := nowString()
	row := &models.UserDB{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        input.Phone,
		University:   input.University,
		Major:        input.Major,
		Year:         input.Year,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	row.ProfileCompletionScore = completionScore(row)

	id, err := s.repo.Create(ctx, row)
	if err != nil {
		return failFrom[models.User](err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the user or a typed not-found error.
func (s *UserService) GetByID(ctx context.Context, id int64) models.Result[models.User] {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failFrom[models.User](err)
	}
	if row == nil {
		return models.Fail[models.User](apperrors.New(apperrors.CodeNotFound, "user not found"))
	}
	return models.OK(toUser(row))
}

// GetByEmail looks a user up by email, case-insensitively.
func (s *UserService) GetByEmail(ctx context.Context, email string) models.Result[models.User] {
	row, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return failFrom[models.User](err)
	}
	if row == nil {
		return models.Fail[models.User](apperrors.New(apperrors.CodeNotFound, "user not found"))
	}
	return models.OK(toUser(row))
}

// Authenticate verifies credentials and stamps the login time. Unknown
// email and wrong password produce the same message, so callers cannot
// probe which emails are registered.
func (s *UserService) Authenticate(ctx context.Context, email, password string) models.Result[models.User] {
	row, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return failFrom[models.User](err)
	}
	if row == nil || !credentials.VerifyPassword(password, row.PasswordHash) {
		return models.Fail[models.User](apperrors.New(apperrors.CodeNotFound, "invalid email or password"))
	}

	if err := s.repo.StampLastLogin(ctx, row.ID, nowString()); err != nil {
		// The login itself succeeded; losing the stamp is log-worthy only.
		logger.Log.Warnw("failed to stamp last login", "user_id", row.ID, "error", err)
	}
	return s.GetByID(ctx, row.ID)
}

// Update applies a typed partial profile update. An empty patch is a typed
// no-updates error, not a silent no-op. The completion score is recomputed
// from the merged profile.
func (s *UserService) Update(ctx context.Context, id int64, patch models.UserPatch) models.Result[models.User] {
	if patch.IsEmpty() {
		return models.Fail[models.User](apperrors.New(apperrors.CodeNoUpdates, "no fields to update"))
	}

	var problems []string
	if patch.FirstName != nil && (strings.TrimSpace(*patch.FirstName) == "" || len(*patch.FirstName) > maxNameLength) {
		problems = append(problems, fmt.Sprintf("first name must be 1-%d characters", maxNameLength))
	}
	if patch.LastName != nil && (strings.TrimSpace(*patch.LastName) == "" || len(*patch.LastName) > maxNameLength) {
		problems = append(problems, fmt.Sprintf("last name must be 1-%d characters", maxNameLength))
	}
	if patch.Bio != nil && len(*patch.Bio) > maxBioLength {
		problems = append(problems, fmt.Sprintf("bio must be at most %d characters", maxBioLength))
	}
	if len(problems) > 0 {
		return models.Fail[models.User](validationError(problems))
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failFrom[models.User](err)
	}
	if current == nil {
		return models.Fail[models.User](apperrors.New(apperrors.CodeNotFound, "user not found"))
	}

	merged := *current
	applyUserPatch(&merged, patch)

	if _, err := s.repo.Update(ctx, id, patch, completionScore(&merged), nowString()); err != nil {
		return failFrom[models.User](err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes the account and, through foreign-key cascades, all of its
// reminders and feedback. Deleting a nonexistent id reports false.
func (s *UserService) Delete(ctx context.Context, id int64) models.Result[bool] {
	changes, err := s.repo.Delete(ctx, id)
	if err != nil {
		return failFrom[bool](err)
	}
	return models.OK(changes > 0)
}

func applyUserPatch(row *models.UserDB, patch models.UserPatch) {
	if patch.FirstName != nil {
		row.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		row.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		row.Phone = *patch.Phone
	}
	if patch.Bio != nil {
		row.Bio = *patch.Bio
	}
	if patch.University != nil {
		row.University = *patch.University
	}
	if patch.Major != nil {
		row.Major = *patch.Major
	}
	if patch.Year != nil {
		row.Year = *patch.Year
	}
	if patch.ProfilePicture != nil {
		row.ProfilePicture = *patch.ProfilePicture
	}
}

// completionScore derives the 0-100 profile completion percentage from the
// eight profile fields.
func completionScore(row *models.UserDB) int {
	fields := []string{
		row.FirstName, row.LastName, row.Phone, row.Bio,
		row.University, row.Major, row.Year, row.ProfilePicture,
	}
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	return filled * 100 / len(fields)
}

func toUser(row *models.UserDB) models.User {
	return models.User{
		ID:                     row.ID,
		Email:                  row.Email,
		FirstName:              row.FirstName,
		LastName:               row.LastName,
		Phone:                  row.Phone,
		Bio:                    row.Bio,
		University:             row.University,
		Major:                  row.Major,
		Year:                   row.Year,
		ProfilePicture:         row.ProfilePicture,
		ProfileCompletionScore: row.ProfileCompletionScore,
		LastLoginAt:            parseTimePtr(row.LastLoginAt),
		CreatedAt:              parseTime(row.CreatedAt),
		UpdatedAt:              parseTime(row.UpdatedAt),
	}
}
