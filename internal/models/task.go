package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"

	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// Task is always bound to exactly one assignee. "Assign to all" expands
// into independent per-user records at creation time; no group reference
// is ever persisted.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Priority    string    `gorm:"size:20;default:'Medium'" json:"priority"`
	Status      string    `gorm:"size:20;default:'Pending'" json:"status"`

	AssignedTo uuid.UUID `gorm:"type:uuid;not null;index" json:"assignedTo"`
	Assignee   *User     `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`

	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"projectId,omitempty"`
	Project   *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`

	// Stored attachment URL. The underlying blob is never deleted when
	// the task goes away (archive retention).
	File string `gorm:"type:text" json:"file,omitempty"`

	EmployeeReply string `gorm:"type:text;default:''" json:"employeeReply"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
