package repositories

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/remindme-store/internal/apperrors"
	"github.com/sbilibin2017/remindme-store/internal/logger"
	"github.com/sbilibin2017/remindme-store/internal/models"
	"github.com/sbilibin2017/remindme-store/internal/storage"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone, bio,
	university, major, year, profile_picture, profile_completion_score,
	last_login_at, created_at, updated_at`

// UserRepository provides row-level access to the users table.
type UserRepository struct {
	st *storage.Storage
}

func NewUserRepository(st *storage.Storage) *UserRepository {
	return &UserRepository{st: st}
}

// Create inserts a user after re-checking email uniqueness inside one
// transaction, so the existence check and the insert commit atomically.
// A taken email yields a conflict error and rolls the insert back.
func (r *UserRepository) Create(ctx context.Context, row *models.UserDB) (int64, error) {
	var id int64
	err := r.st.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM users WHERE email = ?`, row.Email); err != nil {
			return apperrors.Wrap(err, apperrors.CodeStorage, "failed to check email uniqueness")
		}
		if count > 0 {
			return apperrors.New(apperrors.CodeConflict, "an account with this email already exists")
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO users (email, password_hash, first_name, last_name, phone,
				bio, university, major, year, profile_picture,
				profile_completion_score, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.Email, row.PasswordHash, row.FirstName, row.LastName, row.Phone,
			row.Bio, row.University, row.Major, row.Year, row.ProfilePicture,
			row.ProfileCompletionScore, row.CreatedAt, row.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.New(apperrors.CodeConflict, "an account with this email already exists")
			}
			return apperrors.Wrap(err, apperrors.CodeStorage, "failed to insert user")
		}
		id, err = res.LastInsertId()
		return err
	})

	logger.Log.Infow("user create", "email", row.Email, "id", id, "error", err)
	return id, err
}

// GetByID returns the user row, or nil when no row matches.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.UserDB, error) {
	var row models.UserDB
	found, err := r.st.Get(ctx, &row,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &row, nil
}

// GetByEmail returns the user row for a lowercased email, or nil.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	var row models.UserDB
	found, err := r.st.Get(ctx, &row,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &row, nil
}

// Update writes only the fields set in the patch, plus the recomputed
// profile completion score and the updated_at stamp. The caller guarantees
// a non-empty patch.
func (r *UserRepository) Update(ctx context.Context, id int64, patch models.UserPatch, completionScore int, now string) (int64, error) {
	var set []string
	var args []any
	add := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Bio != nil {
		add("bio", *patch.Bio)
	}
	if patch.University != nil {
		add("university", *patch.University)
	}
	if patch.Major != nil {
		add("major", *patch.Major)
	}
	if patch.Year != nil {
		add("year", *patch.Year)
	}
	if patch.ProfilePicture != nil {
		add("profile_picture", *patch.ProfilePicture)
	}
	add("profile_completion_score", completionScore)
	add("updated_at", now)
	args = append(args, id)

	res, err := r.st.Exec(ctx,
		`UPDATE users SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return 0, err
	}

	logger.Log.Infow("user update", "id", id, "changes", res.Changes)
	return res.Changes, nil
}

// StampLastLogin records a successful authentication.
func (r *UserRepository) StampLastLogin(ctx context.Context, id int64, now string) error {
	_, err := r.st.Exec(ctx,
		`UPDATE users SET last_login_at = ?, updated_at = ? WHERE id = ?`, now, now, id)
	return err
}

// Delete removes the user; reminders and feedback cascade via foreign keys.
// Returns the number of user rows removed.
func (r *UserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.st.Exec(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}

	logger.Log.Infow("user delete", "id", id, "changes", res.Changes)
	return res.Changes, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
