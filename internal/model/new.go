package model

import (
	"time"

	"github.com/google/uuid"
)

// NewTaskRequest carries the caller-supplied fields for a new task.
type NewTaskRequest struct {
	Title       string
	Description string
	Priority    Priority // defaults to PriorityMedium
	DueDate     *time.Time
	ProjectID   string
}

// NewProjectRequest carries the caller-supplied fields for a new project.
type NewProjectRequest struct {
	Name        string
	Description string
}

// NewJournalEntryRequest carries the caller-supplied fields for a new
// journal entry.
type NewJournalEntryRequest struct {
	Content        string
	ReflectionType ReflectionType
	Mood           Mood
}

// NewCheckInRequest carries the caller-supplied fields for a new check-in.
type NewCheckInRequest struct {
	TimeOfDay  TimeOfDay
	Priorities []string
	Wins       []string
	Mood       Mood
}

// NewTask builds a pending task with a fresh id and creation time.
func NewTask(req NewTaskRequest) (*Task, error) {
	if req.Title == "" {
		return nil, NewValidationError("title", "is required")
	}
	prio := req.Priority
	if prio == "" {
		prio = PriorityMedium
	}
	switch prio {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
	default:
		return nil, NewValidationError("priority", "must be one of low, medium, high, urgent")
	}
	return &Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      TaskPending,
		Priority:    prio,
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// NewProject builds an active project with a fresh id and creation time.
func NewProject(req NewProjectRequest) (*Project, error) {
	if req.Name == "" {
		return nil, NewValidationError("name", "is required")
	}
	return &Project{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Status:      ProjectActive,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// NewJournalEntry builds a journal entry, validating its tags against vocab.
func NewJournalEntry(vocab *Vocab, req NewJournalEntryRequest) (*JournalEntry, error) {
	if req.Content == "" {
		return nil, NewValidationError("content", "is required")
	}
	if req.ReflectionType == "" {
		return nil, NewValidationError("reflectionType", "is required")
	}
	if !vocab.AllowsReflectionType(req.ReflectionType) {
		return nil, NewValidationError("reflectionType", "unknown reflection type "+string(req.ReflectionType))
	}
	if !vocab.AllowsMood(req.Mood) {
		return nil, NewValidationError("mood", "unknown mood "+string(req.Mood))
	}
	return &JournalEntry{
		ID:             uuid.NewString(),
		Content:        req.Content,
		ReflectionType: req.ReflectionType,
		Mood:           req.Mood,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// NewCheckIn builds a check-in for the given slot.
func NewCheckIn(vocab *Vocab, req NewCheckInRequest) (*CheckIn, error) {
	switch req.TimeOfDay {
	case Morning, Evening:
	default:
		return nil, NewValidationError("timeOfDay", "must be morning or evening")
	}
	if !vocab.AllowsMood(req.Mood) {
		return nil, NewValidationError("mood", "unknown mood "+string(req.Mood))
	}
	return &CheckIn{
		ID:         uuid.NewString(),
		TimeOfDay:  req.TimeOfDay,
		Priorities: req.Priorities,
		Wins:       req.Wins,
		Mood:       req.Mood,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
