// Package query is the single boundary between pipeline stages and the
// language model: a prompt plus an optional reference document in, reply
// text out.
package query

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abhisek/learnify/internal/llm"
	"github.com/abhisek/learnify/internal/stageerr"
)

// Runner sends one prompt to the model and returns the reply text.
// docPath names a reference document to send along; it may be empty.
type Runner interface {
	RunQuery(ctx context.Context, prompt, docPath string, opts ...Option) (string, error)
}

type callOptions struct {
	schema *llm.Schema
}

// Option adjusts a single query.
type Option func(*callOptions)

// WithSchema hints the JSON shape of the expected reply. Runners that
// support native structured output may forward it to the provider; the
// caller still validates the reply itself.
func WithSchema(s *llm.Schema) Option {
	return func(o *callOptions) { o.schema = s }
}

// Config controls how LLMRunner builds requests.
type Config struct {
	MaxTokens         int           `validate:"gte=256"`
	Temperature       float64       `validate:"gte=0,lte=1"`
	Timeout           time.Duration `validate:"gte=0"`
	MaxReferenceBytes int           `validate:"gte=0"`
	// Structured forwards WithSchema hints as provider-native JSON output.
	Structured bool
}

// DefaultConfig returns the request settings used by the pipeline.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         4096,
		Temperature:       0.2,
		Timeout:           90 * time.Second,
		MaxReferenceBytes: 64 * 1024,
	}
}

const referencePreamble = "Use the following reference document as context for the request.\n\n--- reference document ---\n"

// LLMRunner implements Runner over an llm.Provider.
type LLMRunner struct {
	provider llm.Provider
	cfg      Config
}

// NewLLMRunner wraps provider. Zero-valued config fields take defaults.
func NewLLMRunner(provider llm.Provider, cfg Config) *LLMRunner {
	def := DefaultConfig()
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.MaxReferenceBytes == 0 {
		cfg.MaxReferenceBytes = def.MaxReferenceBytes
	}
	return &LLMRunner{provider: provider, cfg: cfg}
}

func (r *LLMRunner) RunQuery(ctx context.Context, prompt, docPath string, opts ...Option) (string, error) {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	ref, err := readReference(docPath, r.cfg.MaxReferenceBytes)
	if err != nil {
		return "", err
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	req := llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	}
	// A document already quoted in the prompt is not sent twice.
	if ref != "" && !strings.Contains(prompt, ref) {
		req.System = referencePreamble + ref
	}
	if r.cfg.Structured && o.schema != nil {
		req.Schema = o.schema
	}

	resp, err := r.provider.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return string(resp.Content), nil
}

// readReference loads at most limit bytes of the document, cut on a rune
// boundary.
func readReference(path string, limit int) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read reference document: %w", err)
	}
	if limit > 0 && len(data) > limit {
		data = data[:limit]
		for len(data) > 0 && !utf8.Valid(data) {
			data = data[:len(data)-1]
		}
	}
	return strings.TrimSpace(string(data)), nil
}

// WithTempDocument writes content to a temporary file, calls fn with its
// path and removes the file on every exit path.
func WithTempDocument(content, pattern string, fn func(path string) error) error {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp document: %w", err)
	}
	return fn(path)
}

// StageError attributes a Runner or reply-check failure to stage. Errors
// that already carry a stage keep it.
func StageError(stage string, err error) *stageerr.Error {
	var se *stageerr.Error
	if errors.As(err, &se) {
		return se
	}
	return stageerr.New(stage, llm.StageKind(err), err)
}
