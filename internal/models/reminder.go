package models

import "time"

// Priority is the urgency level of a reminder.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Reminder is the domain representation of a task with a due date.
// DueDate stays an ISO date/time string end to end; the UI supplies either
// a bare date ("2099-01-01") or a full timestamp.
type Reminder struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     string    `json:"dueDate"`
	IsCompleted bool      `json:"isCompleted"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ReminderDB represents a reminder row. Completion is stored as a 0/1
// integer; only the service layer converts it to bool.
type ReminderDB struct {
	ID          int64  `db:"id"`
	UserID      int64  `db:"user_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	DueDate     string `db:"due_date"`
	IsCompleted int    `db:"is_completed"`
	Priority    string `db:"priority"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

// CreateReminderInput carries the fields accepted when creating a reminder.
type CreateReminderInput struct {
	UserID      int64    `json:"userId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	Priority    Priority `json:"priority"`
}

// ReminderPatch is a typed partial update for a reminder.
type ReminderPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	IsCompleted *bool
	Priority    *Priority
}

// IsEmpty reports whether no field is set.
func (p ReminderPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.IsCompleted == nil && p.Priority == nil
}

// ReminderStats are the derived counts cached by the session manager and
// shown on the profile screen. Owned by a single query in the reminder
// service so the two consumers cannot drift.
type ReminderStats struct {
	Total     int `json:"total" db:"total"`
	Completed int `json:"completed" db:"completed"`
	Pending   int `json:"pending" db:"pending"`
	ThisWeek  int `json:"thisWeek" db:"this_week"`
}
