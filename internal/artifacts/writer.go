// Package artifacts writes the timestamped files a run leaves behind.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/learnify/internal/stageerr"
	"github.com/abhisek/learnify/internal/store"
	"github.com/abhisek/learnify/internal/taxonomy"
)

// Kind names an artifact. It is also the file name prefix.
type Kind string

const (
	OriginalQuestions Kind = "original_questions"
	StudentAnswers    Kind = "student_answers"
	StructuredData    Kind = "structured_data"
	StudentScore      Kind = "student_score"
	Recommendations   Kind = "metacognitive_recommendations"
)

// Kinds lists every kind in the order a run produces them.
var Kinds = []Kind{OriginalQuestions, StudentAnswers, StructuredData, StudentScore, Recommendations}

// TimestampLayout is the file name suffix format.
const TimestampLayout = "20060102_150405"

// maxCollisions bounds the numeric disambiguator search.
const maxCollisions = 1000

// Writer creates artifact files in one directory and records each in the
// artifact index.
type Writer struct {
	dir    string
	repo   store.ArtifactRepo
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock overrides the time source used for file names.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// WithIndex records written files in repo.
func WithIndex(repo store.ArtifactRepo) Option {
	return func(w *Writer) { w.repo = repo }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Writer) { w.logger = l }
}

// NewWriter creates a writer for dir. An empty dir means the working
// directory.
func NewWriter(dir string, opts ...Option) *Writer {
	if dir == "" {
		dir = "."
	}
	w := &Writer{dir: dir, now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// WriteJSON writes v as indented JSON and returns the file path.
func (w *Writer) WriteJSON(ctx context.Context, runID string, kind Kind, v any) (string, error) {
	data, err := taxonomy.MarshalIndent(v)
	if err != nil {
		return "", stageerr.New(stageerr.StagePersist, stageerr.KindPersistence, fmt.Errorf("encode %s: %w", kind, err))
	}
	return w.write(ctx, runID, kind, ".json", data)
}

// WriteText writes text as is and returns the file path.
func (w *Writer) WriteText(ctx context.Context, runID string, kind Kind, text string) (string, error) {
	return w.write(ctx, runID, kind, ".txt", []byte(text))
}

func (w *Writer) write(ctx context.Context, runID string, kind Kind, ext string, data []byte) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", stageerr.New(stageerr.StagePersist, stageerr.KindPersistence, fmt.Errorf("create output dir: %w", err))
	}

	base := fmt.Sprintf("%s_%s", kind, w.now().Format(TimestampLayout))
	f, path, err := w.create(base, ext)
	if err != nil {
		return "", stageerr.New(stageerr.StagePersist, stageerr.KindPersistence, err)
	}

	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(path)
		return "", stageerr.New(stageerr.StagePersist, stageerr.KindPersistence, fmt.Errorf("write %s: %w", filepath.Base(path), err))
	}

	w.logger.Info("artifact written", zap.String("run_id", runID), zap.String("kind", string(kind)), zap.String("path", path))

	if w.repo != nil {
		// The file is on disk either way; a failed index write is only logged.
		if err := w.repo.Record(ctx, runID, string(kind), path); err != nil {
			w.logger.Warn("failed to index artifact", zap.String("path", path), zap.Error(err))
		}
	}
	return path, nil
}

// create opens base+ext exclusively, falling back to base_2+ext,
// base_3+ext and so on when the name is taken.
func (w *Writer) create(base, ext string) (*os.File, string, error) {
	for n := 1; n <= maxCollisions; n++ {
		name := base + ext
		if n > 1 {
			name = fmt.Sprintf("%s_%d%s", base, n, ext)
		}
		path := filepath.Join(w.dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create %s: %w", name, err)
		}
	}
	return nil, "", fmt.Errorf("no free file name for %s%s", base, ext)
}
