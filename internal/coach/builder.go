// Package coach assembles bounded summaries of stored state and turns them
// into coaching responses through an injected language-model call.
package coach

import (
	"fmt"
	"sort"
	"strings"

	"github.com/strideapp/stride/internal/model"
	"github.com/strideapp/stride/internal/store"
)

// Builder reads from the store, never mutates it. The task and journal
// limits keep the assembled context a fixed size regardless of how much
// history has accumulated.
type Builder struct {
	store        *store.Store
	taskLimit    int
	journalLimit int
}

// NewBuilder returns a Builder bounded by taskLimit open tasks and
// journalLimit journal entries.
func NewBuilder(s *store.Store, taskLimit, journalLimit int) *Builder {
	return &Builder{store: s, taskLimit: taskLimit, journalLimit: journalLimit}
}

// BuildContext assembles the coaching context: the most recently created
// open tasks, all active projects, the latest check-in and the most recent
// journal entries with their moods.
func (b *Builder) BuildContext() string {
	var sections []string

	if tasks := b.openTasks(); len(tasks) > 0 {
		lines := []string{"Open Tasks:"}
		for _, t := range tasks {
			line := fmt.Sprintf("- %s (%s, %s priority)", t.Title, t.Status, t.Priority)
			if t.DueDate != nil {
				line += ", due " + t.DueDate.Format("2006-01-02")
			}
			lines = append(lines, line)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if projects := b.store.ListProjects(store.ProjectFilter{Status: model.ProjectActive}); len(projects) > 0 {
		lines := []string{"Active Projects:"}
		for _, p := range projects {
			open := 0
			for _, t := range b.store.TasksByProject(p.ID) {
				if t.Status != model.TaskCompleted {
					open++
				}
			}
			lines = append(lines, fmt.Sprintf("- %s (%d open tasks)", p.Name, open))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if c := b.store.LatestCheckIn(); c != nil {
		lines := []string{fmt.Sprintf("Last Check-in (%s, %s):", c.TimeOfDay, c.CreatedAt.Format("2006-01-02"))}
		if len(c.Priorities) > 0 {
			lines = append(lines, "- priorities: "+strings.Join(c.Priorities, ", "))
		}
		if len(c.Wins) > 0 {
			lines = append(lines, "- wins: "+strings.Join(c.Wins, ", "))
		}
		if c.Mood != "" {
			lines = append(lines, "- mood: "+string(c.Mood))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if entries := b.store.RecentJournalEntries(b.journalLimit); len(entries) > 0 {
		lines := []string{"Recent Journal Entries:"}
		for _, e := range entries {
			line := fmt.Sprintf("- %s: %s", e.ReflectionType, snippet(e.Content, 100))
			if e.Mood != "" {
				line += fmt.Sprintf(" (mood: %s)", e.Mood)
			}
			lines = append(lines, line)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(sections) == 0 {
		return "No tasks, projects, check-ins or journal entries recorded yet."
	}
	return strings.Join(sections, "\n\n")
}

// openTasks returns at most taskLimit pending or in-progress tasks, most
// recently created first.
func (b *Builder) openTasks() []*model.Task {
	var open []*model.Task
	for _, t := range b.store.ListTasks(store.TaskFilter{}) {
		if t.Status == model.TaskCompleted {
			continue
		}
		open = append(open, t)
	}
	sort.Slice(open, func(i, j int) bool { return open[i].CreatedAt.After(open[j].CreatedAt) })
	if len(open) > b.taskLimit {
		open = open[:b.taskLimit]
	}
	return open
}

func snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
