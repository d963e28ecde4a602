// Package model defines the four record kinds stored by stride and their
// validity rules.
package model

import "time"

// TaskStatus is the lifecycle state of a Task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Priority ranks a task's urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ProjectStatus is the lifecycle state of a Project.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

// TimeOfDay identifies a check-in slot.
type TimeOfDay string

const (
	Morning TimeOfDay = "morning"
	Evening TimeOfDay = "evening"
)

// ReflectionType tags a journal entry. It is an open vocabulary; see Vocab.
type ReflectionType string

// Mood tags a journal entry or check-in. Open vocabulary; see Vocab.
type Mood string

// Task is a single actionable item, optionally attached to a project.
// CompletedAt is set exactly when Status is TaskCompleted.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ProjectID   string     `json:"projectId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Project groups tasks under a named goal.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// JournalEntry is an immutable, append-only reflection record.
type JournalEntry struct {
	ID             string         `json:"id"`
	Content        string         `json:"content"`
	ReflectionType ReflectionType `json:"reflectionType"`
	Mood           Mood           `json:"mood,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// CheckIn captures the answers to a morning or evening check-in session.
// The store does not enforce one check-in per (date, slot); duplicates
// simply accumulate.
type CheckIn struct {
	ID         string    `json:"id"`
	TimeOfDay  TimeOfDay `json:"timeOfDay"`
	Priorities []string  `json:"priorities,omitempty"`
	Wins       []string  `json:"wins,omitempty"`
	Mood       Mood      `json:"mood,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
