// Package config loads learnify's settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/abhisek/learnify/internal/coaching"
	"github.com/abhisek/learnify/internal/evaluation"
	"github.com/abhisek/learnify/internal/llm"
	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/query"
	"github.com/abhisek/learnify/internal/taxonomy"
)

// Config holds all application settings. The env tags name the variable
// each field is read from; they also label validation errors.
type Config struct {
	OutputDir      string           `env:"LEARNIFY_OUTPUT_DIR" validate:"required"`
	DBPath         string           `env:"LEARNIFY_DB"`
	Language       string           `env:"LEARNIFY_LANGUAGE" validate:"language"`
	Audience       string           `env:"LEARNIFY_AUDIENCE" validate:"audience"`
	Weights        taxonomy.Weights `env:"LEARNIFY_WEIGHTS" validate:"weights"`
	FocusThreshold float64          `env:"LEARNIFY_FOCUS_THRESHOLD" validate:"gte=0,lte=5"`
	LogMode        string           `env:"LEARNIFY_LOG_MODE" validate:"oneof=development production"`
	LogFile        string           `env:"LEARNIFY_LOG_FILE"`

	Query query.Config
	LLM   llm.Config `validate:"-"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		OutputDir:      ".",
		Language:       string(pipeline.DefaultLanguage),
		Audience:       string(coaching.AudienceGeneral),
		Weights:        taxonomy.UniformWeights(),
		FocusThreshold: evaluation.DefaultThreshold,
		LogMode:        "development",
		Query:          query.DefaultConfig(),
		LLM:            llm.DefaultConfig(),
	}
}

// LoadDotenv loads a dotenv file when LEARNIFY_DOTENV is set: "1" or
// "true" loads ./.env, any other value is a path. Variables already in the
// environment win. It returns the file loaded, or "" when the toggle is off.
func LoadDotenv() (string, error) {
	toggle := strings.TrimSpace(os.Getenv("LEARNIFY_DOTENV"))
	switch strings.ToLower(toggle) {
	case "", "0", "false":
		return "", nil
	case "1", "true":
		toggle = ".env"
	}
	if err := godotenv.Load(toggle); err != nil {
		return "", fmt.Errorf("load dotenv %s: %w", toggle, err)
	}
	return toggle, nil
}

// FromEnv overlays LEARNIFY_* variables on Default. Malformed values are
// errors rather than silently ignored.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv("LEARNIFY_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	cfg.DBPath = os.Getenv("LEARNIFY_DB")
	if v := os.Getenv("LEARNIFY_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("LEARNIFY_AUDIENCE"); v != "" {
		cfg.Audience = v
	}
	if v := os.Getenv("LEARNIFY_WEIGHTS"); v != "" {
		w, err := taxonomy.ParseWeights(v)
		if err != nil {
			return cfg, fmt.Errorf("LEARNIFY_WEIGHTS: %w", err)
		}
		cfg.Weights = w
	}
	if v := os.Getenv("LEARNIFY_FOCUS_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("LEARNIFY_FOCUS_THRESHOLD: %w", err)
		}
		cfg.FocusThreshold = f
	}
	if v := os.Getenv("LEARNIFY_LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	cfg.LogFile = os.Getenv("LEARNIFY_LOG_FILE")

	if v := os.Getenv("LEARNIFY_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("LEARNIFY_MAX_TOKENS: %w", err)
		}
		cfg.Query.MaxTokens = n
	}
	if v := os.Getenv("LEARNIFY_STRUCTURED_OUTPUT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("LEARNIFY_STRUCTURED_OUTPUT: %w", err)
		}
		cfg.Query.Structured = b
	}

	cfg.LLM = llm.ResolveConfig()
	cfg.Query.Timeout = cfg.LLM.Timeout
	return cfg, nil
}

// Load runs LoadDotenv, FromEnv and Validate.
func Load() (Config, error) {
	if _, err := LoadDotenv(); err != nil {
		return Config{}, err
	}
	cfg, err := FromEnv()
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// PipelineOptions converts the run settings. Call after Validate.
func (c Config) PipelineOptions() pipeline.Options {
	lang, _ := pipeline.ParseLanguage(c.Language)
	aud, _ := coaching.ParseAudience(c.Audience)
	return pipeline.Options{Language: lang, Audience: aud, Weights: c.Weights.Clone()}
}
