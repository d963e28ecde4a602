package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/strideapp/stride/internal/model"
)

// Generator is the single capability expected from the external language
// model: turn a prompt into text or fail. Any provider satisfying it is
// substitutable.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// systemPrompt frames every coaching call.
const systemPrompt = `You are a productivity coach helping users stay focused and achieve their goals.
Your role is to:
1. Provide actionable insights based on the user's tasks, check-ins, and journal entries
2. Help identify patterns in productivity and procrastination
3. Suggest improvements to their workflow
4. Offer encouragement and accountability
5. Help break down complex tasks into manageable steps

Be concise, practical, and empathetic in your responses.`

const morningFocus = `Focus on:
1. Reviewing priorities from yesterday
2. Setting clear goals for today
3. Identifying potential challenges
4. Suggesting specific actions to maintain focus

Keep the response concise and actionable.`

const eveningFocus = `Focus on:
1. Celebrating accomplishments
2. Identifying areas for improvement
3. Suggesting adjustments for tomorrow
4. Providing encouragement for continued progress

Keep the response concise and supportive.`

// Coach delegates generation to the injected Generator. Failures are
// surfaced as CoachError with the cause attached; there is no retry and no
// fallback text.
type Coach struct {
	builder *Builder
	gen     Generator
	log     zerolog.Logger
}

// New returns a Coach over the given context builder and generator.
func New(b *Builder, gen Generator, log zerolog.Logger) *Coach {
	return &Coach{builder: b, gen: gen, log: log}
}

// Respond answers a free-form user message with the assembled context as
// prompt prefix.
func (c *Coach) Respond(ctx context.Context, userMessage string) (string, error) {
	if strings.TrimSpace(userMessage) == "" {
		return "", model.NewValidationError("message", "is required")
	}
	prompt := fmt.Sprintf("Current state:\n\n%s\n\n%s", c.builder.BuildContext(), userMessage)
	return c.generate(ctx, "respond", prompt)
}

// MorningBrief produces the morning coaching insights over current state.
func (c *Coach) MorningBrief(ctx context.Context) (string, error) {
	prompt := fmt.Sprintf(
		"Based on the following context, provide morning coaching to help set up for a productive day:\n\n%s\n\n%s",
		c.builder.BuildContext(), morningFocus)
	return c.generate(ctx, "morning-brief", prompt)
}

// EveningReview produces the evening reflection over current state.
func (c *Coach) EveningReview(ctx context.Context) (string, error) {
	prompt := fmt.Sprintf(
		"Based on the following context, provide evening coaching to reflect on the day:\n\n%s\n\n%s",
		c.builder.BuildContext(), eveningFocus)
	return c.generate(ctx, "evening-review", prompt)
}

// SuggestBreakdown asks the model for 3-5 subtasks of the given task and
// returns them as a list, one entry per suggested subtask.
func (c *Coach) SuggestBreakdown(ctx context.Context, taskID string) ([]string, error) {
	task, err := c.builder.store.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(`Break down this task into smaller, manageable subtasks:

Task: %s
Description: %s
Priority: %s

Provide 3-5 specific, actionable subtasks that would help complete this task.
Each subtask should be clear and achievable within a short time frame.`,
		task.Title, task.Description, task.Priority)
	resp, err := c.generate(ctx, "suggest-breakdown", prompt)
	if err != nil {
		return nil, err
	}
	subtasks := parseSubtasks(resp)
	if len(subtasks) == 0 {
		return nil, model.CoachError{Op: "suggest-breakdown", Err: errors.New("no subtasks in response")}
	}
	return subtasks, nil
}

// parseSubtasks keeps the lines the model marked as list items. Anything
// else (preamble, closing remarks) is dropped.
func parseSubtasks(resp string) []string {
	var out []string
	for _, line := range strings.Split(resp, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") {
			if item := strings.TrimSpace(strings.TrimPrefix(line, "-")); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// AnalyzeProcrastination asks the model for insights on a single journal
// entry, typically one recorded with the procrastination reflection type.
func (c *Coach) AnalyzeProcrastination(ctx context.Context, entryID string) (string, error) {
	entry, err := c.builder.store.GetJournalEntry(entryID)
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(`Analyze this procrastination journal entry and provide insights:

Entry: %s
Mood: %s

Focus on:
1. Identifying triggers and patterns
2. Suggesting practical coping strategies
3. Breaking down overwhelming tasks
4. Providing encouragement to move forward

Keep the response concise and actionable.`, entry.Content, entry.Mood)
	return c.generate(ctx, "analyze-procrastination", prompt)
}

func (c *Coach) generate(ctx context.Context, op, prompt string) (string, error) {
	resp, err := c.gen.Generate(ctx, systemPrompt, prompt)
	if err != nil {
		c.log.Error().Err(err).Str("op", op).Msg("language model call failed")
		return "", model.CoachError{Op: op, Err: err}
	}
	if strings.TrimSpace(resp) == "" {
		return "", model.CoachError{Op: op, Err: errors.New("empty response")}
	}
	return resp, nil
}
