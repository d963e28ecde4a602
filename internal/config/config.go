// Package config loads runtime settings from STRIDE_-prefixed environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/strideapp/stride/internal/model"
	"github.com/strideapp/stride/internal/store"
)

// Config holds the configuration for the assistant.
// Environment variables are parsed from the STRIDE_ prefix.
// Example: STRIDE_DATA_DIR, STRIDE_COACH_MODEL.
type Config struct {
	// DataDir is where the record files live. Empty means ~/.stride.
	DataDir string `envconfig:"DATA_DIR" default:""`

	// Coach / LLM configuration. The API key itself stays an external
	// concern: the OpenAI provider reads OPENAI_API_KEY directly.
	CoachModel    string        `envconfig:"COACH_MODEL" default:"gpt-3.5-turbo"`
	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com"`
	CoachTimeout  time.Duration `envconfig:"COACH_TIMEOUT" default:"60s"`

	// Context bounds keep the coaching prompt a fixed size no matter how
	// much history accumulates.
	ContextTaskLimit    int `envconfig:"CONTEXT_TASK_LIMIT" default:"8"`
	ContextJournalLimit int `envconfig:"CONTEXT_JOURNAL_LIMIT" default:"5"`

	// Vocabulary extensions for the open-ended tag fields.
	ExtraReflectionTypes []string `envconfig:"EXTRA_REFLECTION_TYPES" default:""`
	ExtraMoods           []string `envconfig:"EXTRA_MOODS" default:""`
}

// New creates a Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("STRIDE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("data_dir", cfg.DataDir).
		Str("coach_model", cfg.CoachModel).
		Str("openai_base_url", cfg.OpenAIBaseURL).
		Dur("coach_timeout", cfg.CoachTimeout).
		Int("context_task_limit", cfg.ContextTaskLimit).
		Int("context_journal_limit", cfg.ContextJournalLimit).
		Msg("configuration loaded")
	return &cfg, nil
}

// ResolveDefaults fills DataDir when unset and validates the bounds.
func (c *Config) ResolveDefaults() error {
	if c.DataDir == "" {
		dir, err := store.DefaultDataDir()
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		c.DataDir = dir
	}
	if c.ContextTaskLimit <= 0 {
		return fmt.Errorf("STRIDE_CONTEXT_TASK_LIMIT must be positive, got %d", c.ContextTaskLimit)
	}
	if c.ContextJournalLimit <= 0 {
		return fmt.Errorf("STRIDE_CONTEXT_JOURNAL_LIMIT must be positive, got %d", c.ContextJournalLimit)
	}
	if c.CoachTimeout <= 0 {
		return fmt.Errorf("STRIDE_COACH_TIMEOUT must be positive, got %s", c.CoachTimeout)
	}
	return nil
}

// Vocab builds the tag vocabulary: the known values plus any configured
// extensions.
func (c *Config) Vocab() *model.Vocab {
	v := model.DefaultVocab()
	rts := make([]model.ReflectionType, 0, len(c.ExtraReflectionTypes))
	for _, rt := range c.ExtraReflectionTypes {
		rts = append(rts, model.ReflectionType(rt))
	}
	moods := make([]model.Mood, 0, len(c.ExtraMoods))
	for _, m := range c.ExtraMoods {
		moods = append(moods, model.Mood(m))
	}
	v.Extend(rts, moods)
	return v
}
