package coach

import (
	"time"

	"github.com/strideapp/stride/internal/model"
	"github.com/strideapp/stride/internal/store"
)

// Patterns summarizes productivity signals computed locally from the store,
// with no language-model call.
type Patterns struct {
	TotalTasks     int
	CompletedTasks int
	CompletionRate float64
	MoodCounts     map[model.Mood]int
}

// ProductivityPatterns computes the task completion rate and the mood
// distribution across the journal.
func (b *Builder) ProductivityPatterns() Patterns {
	p := Patterns{MoodCounts: make(map[model.Mood]int)}

	for _, t := range b.store.ListTasks(store.TaskFilter{}) {
		p.TotalTasks++
		if t.Status == model.TaskCompleted {
			p.CompletedTasks++
		}
	}
	if p.TotalTasks > 0 {
		p.CompletionRate = float64(p.CompletedTasks) / float64(p.TotalTasks)
	}

	for _, e := range b.store.JournalEntriesSince(time.Time{}) {
		if e.Mood != "" {
			p.MoodCounts[e.Mood]++
		}
	}
	return p
}
