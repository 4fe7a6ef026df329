package models

import "time"

// User is the domain representation of an account. The password hash never
// leaves the service layer, so it is absent here.
type User struct {
	ID                     int64      `json:"id"`
	Email                  string     `json:"email"`
	FirstName              string     `json:"firstName"`
	LastName               string     `json:"lastName"`
	Phone                  string     `json:"phone,omitempty"`
	Bio                    string     `json:"bio,omitempty"`
	University             string     `json:"university,omitempty"`
	Major                  string     `json:"major,omitempty"`
	Year                   string     `json:"year,omitempty"`
	ProfilePicture         string     `json:"profilePicture,omitempty"`
	ProfileCompletionScore int        `json:"profileCompletionScore"`
	LastLoginAt            *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// UserDB represents a user row in the database. Timestamps are stored as
// RFC3339 strings; translation to time.Time happens in the service layer.
type UserDB struct {
	ID                     int64   `db:"id"`
	Email                  string  `db:"email"`
	PasswordHash           string  `db:"password_hash"`
	FirstName              string  `db:"first_name"`
	LastName               string  `db:"last_name"`
	Phone                  string  `db:"phone"`
	Bio                    string  `db:"bio"`
	University             string  `db:"university"`
	Major                  string  `db:"major"`
	Year                   string  `db:"year"`
	ProfilePicture         string  `db:"profile_picture"`
	ProfileCompletionScore int     `db:"profile_completion_score"`
	LastLoginAt            *string `db:"last_login_at"`
	CreatedAt              string  `db:"created_at"`
	UpdatedAt              string  `db:"updated_at"`
}

// CreateUserInput carries the fields accepted at registration.
type CreateUserInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	University string `json:"university"`
	Major      string `json:"major"`
	Year       string `json:"year"`
}

// UserPatch is a typed partial update: only non-nil fields are written.
// Email and password are deliberately absent; they change through dedicated
// flows, not profile updates.
type UserPatch struct {
	FirstName      *string
	LastName       *string
	Phone          *string
	Bio            *string
	University     *string
	Major          *string
	Year           *string
	ProfilePicture *string
}

// IsEmpty reports whether no field is set.
func (p UserPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil &&
		p.Bio == nil && p.University == nil && p.Major == nil &&
		p.Year == nil && p.ProfilePicture == nil
}
