package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/strideapp/stride/internal/coach"
	"github.com/strideapp/stride/internal/coach/openai"
	"github.com/strideapp/stride/internal/config"
	"github.com/strideapp/stride/internal/logger"
	"github.com/strideapp/stride/internal/model"
	"github.com/strideapp/stride/internal/store"
)

var debug bool

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stride",
		Short:         "Personal productivity assistant and daily coach",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitConsole()
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newTaskCmd())
	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newJournalCmd())
	rootCmd.AddCommand(newCheckInCmd())
	rootCmd.AddCommand(newCoachCmd())
	rootCmd.AddCommand(newMorningCmd())
	rootCmd.AddCommand(newEveningCmd())
	rootCmd.AddCommand(newPatternsCmd())

	return rootCmd
}

// openStore loads configuration and the backing files. Load failures are
// surfaced, never papered over with empty collections.
func openStore() (*config.Config, *store.Store, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}
	s, err := store.Open(cfg.DataDir,
		store.WithVocab(cfg.Vocab()),
		store.WithLogger(log.Logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return cfg, s, nil
}

func newCoachFor(cfg *config.Config, s *store.Store) *coach.Coach {
	builder := coach.NewBuilder(s, cfg.ContextTaskLimit, cfg.ContextJournalLimit)
	provider := openai.New(cfg.OpenAIBaseURL, cfg.CoachModel, cfg.CoachTimeout)
	return coach.New(builder, provider, log.Logger)
}

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	var title, description, priority, dueDate, projectID string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := openStore()
			if err != nil {
				return err
			}
			req := model.NewTaskRequest{
				Title:       title,
				Description: description,
				Priority:    model.Priority(priority),
				ProjectID:   projectID,
			}
			if dueDate != "" {
				due, err := time.Parse("2006-01-02", dueDate)
				if err != nil {
					return fmt.Errorf("invalid --due-date %q, want YYYY-MM-DD: %w", dueDate, err)
				}
				req.DueDate = &due
			}
			t, err := s.AddTask(req)
			if err != nil {
				return err
			}
			fmt.Printf("Task added: %s (%s)\n", t.Title, t.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&title, "title", "", "Task title (required)")
	addCmd.Flags().StringVar(&description, "description", "", "Task description")
	addCmd.Flags().StringVar(&priority, "priority", "", "Priority: low, medium, high, urgent")
	addCmd.Flags().StringVar(&dueDate, "due-date", "", "Due date in YYYY-MM-DD format")
	addCmd.Flags().StringVar(&projectID, "project-id", "", "Project to attach the task to")
	_ = addCmd.MarkFlagRequired("title")

	var status, listProjectID string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := openStore()
			if err != nil {
				return err
			}
			tasks := s.ListTasks(store.TaskFilter{
				Status:    model.TaskStatus(status),
				ProjectID: listProjectID,
			})
			if len(tasks) == 0 {
				fmt.Println("No tasks found.")
				return nil
			}
			for _, t := range tasks {
				line := fmt.Sprintf("%s  %-12s %-7s %s", t.ID, t.Status, t.Priority, t.Title)
				if t.DueDate != nil {
					line += "  due " + t.DueDate.Format("2006-01-02")
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status: pending, in_progress, completed")
	listCmd.Flags().StringVar(&listProjectID, "project-id", "", "Filter by project")

	startCmd := &cobra.Command{
		Use:   "start <task-id>",
		Short: "Move a pending task to in_progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := openStore()
			if err != nil {
				return err
			}
			t, err := s.UpdateTaskStatus(args[0], model.TaskInProgress)
			if err != nil {
				return err
			}
			fmt.Printf("Task started: %s\n", t.Title)
			return nil
		},
	}

	completeCmd := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := openStore()
			if err != nil {
				return err
			}
			t, err := s.CompleteTask(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Task completed: %s\n", t.Title)
			return nil
		},
	}

	breakdownCmd := &cobra.Command{
		Use:   "breakdown <task-id>",
		Short: "Ask the coach to break a task into subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := openStore()
			if err != nil {
				return err
			}
			subtasks, err := newCoachFor(cfg, s).SuggestBreakdown(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println("Suggested subtasks:")
			for _, st := range subtasks {
				fmt.Printf("- %s\n", st)
			}
			return nil
		},
	}

	cmd.AddCommand(addCmd, listCmd, startCmd, completeCmd, breakdownCmd)
	return cmd
}

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	var name, description string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := openStore()
			if err != nil {
				return err
			}
			p, err := s.AddProject(model.NewProjectRequest{Name: name, Description: description})
			if err != nil {
				return err
			}
			fmt.Printf("Project added: %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "Project name (required)")
	addCmd.Flags().StringVar(&description, "description", "", "Project description")
	_ = addCmd.MarkFlagRequired("name")

	var status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := openStore()
			if err != nil {
				return err
			}
			projects := s.ListProjects(store.ProjectFilter{Status: model.ProjectStatus(status)})
			if len(projects) == 0 {
				fmt.Println("No projects found.")
				return nil
			}
			for _, p := range projects {
				fmt.Printf("%s  %-8s %s (%d tasks)\n", p.ID, p.Status, p.Name, len(s.TasksByProject(p.ID)))
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status: active, archived")

	archiveCmd := &cobra.Command{
		Use:   "archive <project-id>",
		Short: "Archive a project (tasks keep their reference)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := openStore()
			if err != nil {
				return err
			}
			p, err := s.ArchiveProject(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Project archived: %s\n", p.Name)
			return nil
		},
	}

	cmd.AddCommand(addCmd, listCmd, archiveCmd)
	return cmd
}

func newJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Add or list journal entries",
	}

	var content, reflectionType, mood string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a journal entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := openStore()
			if err != nil {
				return err
			}
			e, err := s.AddJournalEntry(model.NewJournalEntryRequest{
				Content:        content,
				ReflectionType: model.ReflectionType(reflectionType),
				Mood:           model.Mood(mood),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Journal entry added: %s\n", e.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&content, "content", "", "Entry content (required)")
	addCmd.Flags().StringVar(&reflectionType, "type", "reflection", "Reflection type")
	addCmd.Flags().StringVar(&mood, "mood", "", "Current mood")
	_ = addCmd.MarkFlagRequired("content")

	var days int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := openStore()
			if err != nil {
				return err
			}
			entries := s.JournalEntriesSince(time.Now().AddDate(0, 0, -days))
			if len(entries) == 0 {
				fmt.Println("No journal entries found for the specified period.")
				return nil
			}
			for _, e := range entries {
				line := fmt.Sprintf("%s  %-16s %s", e.CreatedAt.Format("2006-01-02 15:04"), e.ReflectionType, e.Content)
				if e.Mood != "" {
					line += fmt.Sprintf(" (mood: %s)", e.Mood)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	listCmd.Flags().IntVar(&days, "days", 7, "Number of days of entries to show")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <entry-id>",
		Short: "Ask the coach to analyze a procrastination entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := openStore()
			if err != nil {
				return err
			}
			resp, err := newCoachFor(cfg, s).AnalyzeProcrastination(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(resp)
			return nil
		},
	}

	cmd.AddCommand(addCmd, listCmd, analyzeCmd)
	return cmd
}

func newCheckInCmd() *cobra.Command {
	var timeOfDay, mood string
	var priorities, wins []string

	cmd := &cobra.Command{
		Use:   "check-in",
		Short: "Record a morning or evening check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := openStore()
			if err != nil {
				return err
			}
			c, err := s.AddCheckIn(model.NewCheckInRequest{
				TimeOfDay:  model.TimeOfDay(timeOfDay),
				Priorities: priorities,
				Wins:       wins,
				Mood:       model.Mood(mood),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Check-in recorded (%s).\n", c.TimeOfDay)
			return nil
		},
	}
	cmd.Flags().StringVar(&timeOfDay, "time-of-day", "", "Slot: morning or evening (required)")
	cmd.Flags().StringSliceVar(&priorities, "priority", nil, "Today's priorities (repeatable)")
	cmd.Flags().StringSliceVar(&wins, "win", nil, "Today's wins (repeatable)")
	cmd.Flags().StringVar(&mood, "mood", "", "Current mood")
	_ = cmd.MarkFlagRequired("time-of-day")
	return cmd
}

func newCoachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coach <message>",
		Short: "Ask the coach a question about your current state",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := openStore()
			if err != nil {
				return err
			}
			resp, err := newCoachFor(cfg, s).Respond(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func newMorningCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "morning",
		Short: "Get the morning coaching brief",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := openStore()
			if err != nil {
				return err
			}
			resp, err := newCoachFor(cfg, s).MorningBrief(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func newEveningCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evening",
		Short: "Get the evening coaching review",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := openStore()
			if err != nil {
				return err
			}
			resp, err := newCoachFor(cfg, s).EveningReview(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "Show productivity patterns computed from stored state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := openStore()
			if err != nil {
				return err
			}
			b := coach.NewBuilder(s, cfg.ContextTaskLimit, cfg.ContextJournalLimit)
			p := b.ProductivityPatterns()
			fmt.Printf("Tasks completed: %d/%d (%.1f%%)\n", p.CompletedTasks, p.TotalTasks, p.CompletionRate*100)
			if len(p.MoodCounts) > 0 {
				fmt.Println("Journal moods:")
				moods := make([]string, 0, len(p.MoodCounts))
				for m := range p.MoodCounts {
					moods = append(moods, string(m))
				}
				sort.Strings(moods)
				for _, m := range moods {
					fmt.Printf("- %s: %d\n", m, p.MoodCounts[model.Mood(m)])
				}
			}
			return nil
		},
	}
}
