package models

import "time"

// FeedbackStatus is the review state of a support message. Transitions are
// monotonic in practice (pending -> reviewed -> resolved) but the store does
// not enforce ordering; any status may be set directly.
type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "pending"
	FeedbackReviewed FeedbackStatus = "reviewed"
	FeedbackResolved FeedbackStatus = "resolved"
)

// Valid reports whether s is one of the known statuses.
func (s FeedbackStatus) Valid() bool {
	switch s {
	case FeedbackPending, FeedbackReviewed, FeedbackResolved:
		return true
	}
	return false
}

// Feedback is the domain representation of a user-submitted support message.
type Feedback struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"userId"`
	Subject   string         `json:"subject,omitempty"`
	Message   string         `json:"message"`
	Status    FeedbackStatus `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// FeedbackDB represents a feedback row in the database.
type FeedbackDB struct {
	ID        int64  `db:"id"`
	UserID    int64  `db:"user_id"`
	Subject   string `db:"subject"`
	Message   string `db:"message"`
	Status    string `db:"status"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// CreateFeedbackInput carries the fields accepted on submission.
type CreateFeedbackInput struct {
	UserID  int64  `json:"userId"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
