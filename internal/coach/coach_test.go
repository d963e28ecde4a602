package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideapp/stride/internal/model"
	"github.com/strideapp/stride/internal/store"
)

// fakeGenerator records the prompts it receives and returns a canned
// response.
type fakeGenerator struct {
	system string
	prompt string
	resp   string
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.system = systemPrompt
	f.prompt = userPrompt
	return f.resp, f.err
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestRespond(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddTask(model.NewTaskRequest{Title: "Write the launch email"})
	require.NoError(t, err)

	gen := &fakeGenerator{resp: "Start with the email draft."}
	c := New(NewBuilder(s, 8, 5), gen, zerolog.Nop())

	resp, err := c.Respond(context.Background(), "what should I do first?")
	require.NoError(t, err)
	assert.Equal(t, "Start with the email draft.", resp)

	assert.Contains(t, gen.system, "productivity coach")
	assert.Contains(t, gen.prompt, "Write the launch email")
	assert.Contains(t, gen.prompt, "what should I do first?")
}

func TestRespondRequiresMessage(t *testing.T) {
	c := New(NewBuilder(newTestStore(t), 8, 5), &fakeGenerator{resp: "x"}, zerolog.Nop())

	_, err := c.Respond(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
}

func TestGeneratorFailureBecomesCoachError(t *testing.T) {
	cause := errors.New("connection refused")
	c := New(NewBuilder(newTestStore(t), 8, 5), &fakeGenerator{err: cause}, zerolog.Nop())

	_, err := c.Respond(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, model.IsCoachError(err))
	assert.True(t, errors.Is(err, cause), "cause must stay attached")
}

func TestEmptyResponseBecomesCoachError(t *testing.T) {
	c := New(NewBuilder(newTestStore(t), 8, 5), &fakeGenerator{resp: "  \n"}, zerolog.Nop())

	_, err := c.MorningBrief(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsCoachError(err))
}

func TestMorningAndEveningPrompts(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddCheckIn(model.NewCheckInRequest{
		TimeOfDay:  model.Morning,
		Priorities: []string{"finish the report"},
	})
	require.NoError(t, err)

	gen := &fakeGenerator{resp: "ok"}
	c := New(NewBuilder(s, 8, 5), gen, zerolog.Nop())

	_, err = c.MorningBrief(context.Background())
	require.NoError(t, err)
	assert.Contains(t, gen.prompt, "morning coaching")
	assert.Contains(t, gen.prompt, "Setting clear goals for today")
	assert.Contains(t, gen.prompt, "finish the report")

	_, err = c.EveningReview(context.Background())
	require.NoError(t, err)
	assert.Contains(t, gen.prompt, "evening coaching")
	assert.Contains(t, gen.prompt, "Celebrating accomplishments")
}

func TestSuggestBreakdown(t *testing.T) {
	s := newTestStore(t)
	task, err := s.AddTask(model.NewTaskRequest{
		Title:       "Ship the release",
		Description: "cut, test, announce",
		Priority:    model.PriorityHigh,
	})
	require.NoError(t, err)

	gen := &fakeGenerator{resp: `Here are some subtasks:
- Cut the release branch
- Run the regression suite
 - Write the announcement

Good luck!`}
	c := New(NewBuilder(s, 8, 5), gen, zerolog.Nop())

	subtasks, err := c.SuggestBreakdown(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Cut the release branch",
		"Run the regression suite",
		"Write the announcement",
	}, subtasks)

	assert.Contains(t, gen.prompt, "Task: Ship the release")
	assert.Contains(t, gen.prompt, "Description: cut, test, announce")
	assert.Contains(t, gen.prompt, "Priority: high")
}

func TestSuggestBreakdownUnknownTask(t *testing.T) {
	c := New(NewBuilder(newTestStore(t), 8, 5), &fakeGenerator{resp: "- x"}, zerolog.Nop())

	_, err := c.SuggestBreakdown(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, model.IsNotFoundError(err))
}

func TestSuggestBreakdownNoListItems(t *testing.T) {
	s := newTestStore(t)
	task, err := s.AddTask(model.NewTaskRequest{Title: "t"})
	require.NoError(t, err)

	c := New(NewBuilder(s, 8, 5), &fakeGenerator{resp: "Just do it all at once."}, zerolog.Nop())

	_, err = c.SuggestBreakdown(context.Background(), task.ID)
	require.Error(t, err)
	assert.True(t, model.IsCoachError(err))
}

func TestAnalyzeProcrastination(t *testing.T) {
	s := newTestStore(t)
	entry, err := s.AddJournalEntry(model.NewJournalEntryRequest{
		Content:        "kept putting off the tax forms",
		ReflectionType: "procrastination",
		Mood:           "anxious",
	})
	require.NoError(t, err)

	gen := &fakeGenerator{resp: "The forms feel bigger than they are."}
	c := New(NewBuilder(s, 8, 5), gen, zerolog.Nop())

	resp, err := c.AnalyzeProcrastination(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "The forms feel bigger than they are.", resp)

	assert.Contains(t, gen.prompt, "Entry: kept putting off the tax forms")
	assert.Contains(t, gen.prompt, "Mood: anxious")
	assert.Contains(t, gen.prompt, "Identifying triggers and patterns")
}

func TestAnalyzeProcrastinationUnknownEntry(t *testing.T) {
	c := New(NewBuilder(newTestStore(t), 8, 5), &fakeGenerator{resp: "x"}, zerolog.Nop())

	_, err := c.AnalyzeProcrastination(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, model.IsNotFoundError(err))
}

func TestBuildContextBounded(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 60; i++ {
		_, err := s.AddTask(model.NewTaskRequest{Title: fmt.Sprintf("task %02d", i)})
		require.NoError(t, err)
	}
	for i := 0; i < 20; i++ {
		_, err := s.AddJournalEntry(model.NewJournalEntryRequest{
			Content:        fmt.Sprintf("entry %02d", i),
			ReflectionType: "reflection",
		})
		require.NoError(t, err)
	}

	b := NewBuilder(s, 5, 3)
	ctx := b.BuildContext()

	assert.Equal(t, 5, strings.Count(ctx, "medium priority"), "task section must stay at its bound")
	assert.Equal(t, 3, strings.Count(ctx, "- reflection:"), "journal section must stay at its bound")
}

func TestBuildContextContent(t *testing.T) {
	s := newTestStore(t)

	p, err := s.AddProject(model.NewProjectRequest{Name: "Launch"})
	require.NoError(t, err)
	archived, err := s.AddProject(model.NewProjectRequest{Name: "Old idea"})
	require.NoError(t, err)
	_, err = s.ArchiveProject(archived.ID)
	require.NoError(t, err)

	_, err = s.AddTask(model.NewTaskRequest{Title: "Write spec", ProjectID: p.ID})
	require.NoError(t, err)
	done, err := s.AddTask(model.NewTaskRequest{Title: "Old chore"})
	require.NoError(t, err)
	_, err = s.CompleteTask(done.ID)
	require.NoError(t, err)

	_, err = s.AddJournalEntry(model.NewJournalEntryRequest{
		Content:        "kept postponing the spec",
		ReflectionType: "procrastination",
		Mood:           "anxious",
	})
	require.NoError(t, err)

	ctx := NewBuilder(s, 8, 5).BuildContext()

	assert.Contains(t, ctx, "Write spec")
	assert.NotContains(t, ctx, "Old chore", "completed tasks stay out of the context")
	assert.Contains(t, ctx, "Launch (1 open tasks)")
	assert.NotContains(t, ctx, "Old idea", "archived projects stay out of the context")
	assert.Contains(t, ctx, "procrastination: kept postponing the spec")
	assert.Contains(t, ctx, "(mood: anxious)")
}

func TestBuildContextEmptyStore(t *testing.T) {
	ctx := NewBuilder(newTestStore(t), 8, 5).BuildContext()
	assert.Contains(t, ctx, "No tasks, projects, check-ins or journal entries")
}

func TestProductivityPatterns(t *testing.T) {
	s := newTestStore(t)
	b := NewBuilder(s, 8, 5)

	empty := b.ProductivityPatterns()
	assert.Zero(t, empty.TotalTasks)
	assert.Zero(t, empty.CompletionRate)

	for i := 0; i < 4; i++ {
		task, err := s.AddTask(model.NewTaskRequest{Title: "t"})
		require.NoError(t, err)
		if i < 3 {
			_, err = s.CompleteTask(task.ID)
			require.NoError(t, err)
		}
	}
	for _, mood := range []model.Mood{"happy", "happy", "tired"} {
		_, err := s.AddJournalEntry(model.NewJournalEntryRequest{
			Content:        "x",
			ReflectionType: "reflection",
			Mood:           mood,
		})
		require.NoError(t, err)
	}

	p := b.ProductivityPatterns()
	assert.Equal(t, 4, p.TotalTasks)
	assert.Equal(t, 3, p.CompletedTasks)
	assert.InDelta(t, 0.75, p.CompletionRate, 1e-9)
	assert.Equal(t, map[model.Mood]int{"happy": 2, "tired": 1}, p.MoodCounts)
}
