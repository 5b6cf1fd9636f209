package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/learnify/internal/answers"
	"github.com/abhisek/learnify/internal/artifacts"
	"github.com/abhisek/learnify/internal/coaching"
	"github.com/abhisek/learnify/internal/evaluation"
	"github.com/abhisek/learnify/internal/expansion"
	"github.com/abhisek/learnify/internal/llm"
	"github.com/abhisek/learnify/internal/restructure"
	"github.com/abhisek/learnify/internal/stageerr"
	"github.com/abhisek/learnify/internal/store"
	"github.com/abhisek/learnify/internal/taxonomy"
)

// Errors returned when a stage is called out of order.
var (
	ErrNoSource         = errors.New("no question document has been loaded")
	ErrSourceLocked     = errors.New("questions were already generated; start a new run to load another document")
	ErrNoQuestions      = errors.New("questions have not been generated yet")
	ErrAlreadySubmitted = errors.New("answers were already submitted for this run")
	ErrNotAnswered      = errors.New("answers have not been submitted yet")
	ErrNotScored        = errors.New("answers have not been scored yet")
)

// Expander generates the taxonomy question sets for a document.
type Expander interface {
	Expand(ctx context.Context, source string) ([]taxonomy.TopicQuestionSet, error)
}

// Scorer grades a grouping.
type Scorer interface {
	Score(ctx context.Context, g *taxonomy.Grouping) (*taxonomy.Grouping, error)
}

// Recommender produces coaching text for an evaluation.
type Recommender interface {
	Recommend(ctx context.Context, ev *evaluation.Evaluation, audience coaching.Audience) (string, error)
}

// Deps are the collaborators a Pipeline drives.
type Deps struct {
	Expander    Expander
	Scorer      Scorer
	Recommender Recommender
	Writer      *artifacts.Writer
	// Runs is optional; when set, the state is saved after every change.
	Runs   store.RunRepo
	Logger *zap.Logger
}

// Options are the learner's run settings.
type Options struct {
	Language Language
	Audience coaching.Audience
	Weights  taxonomy.Weights
}

// Pipeline runs the stages of one learner session in order. It is not safe
// for concurrent use.
type Pipeline struct {
	deps   Deps
	logger *zap.Logger
	state  *State
	opts   Options
}

// New creates a pipeline with a fresh run.
func New(deps Deps, opts Options) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Writer == nil {
		deps.Writer = artifacts.NewWriter("", artifacts.WithLogger(deps.Logger))
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Audience == "" {
		opts.Audience = coaching.AudienceGeneral
	}
	p := &Pipeline{deps: deps, logger: deps.Logger, opts: opts}
	p.reset()
	return p
}

// State returns the current state. Callers must not modify it.
func (p *Pipeline) State() *State { return p.state }

// Reset discards the current run and starts a new one with the same
// options. Weights and audience changes made during the run are kept.
func (p *Pipeline) Reset() {
	p.opts.Weights = p.state.Weights
	p.opts.Audience = p.state.Audience
	p.reset()
}

func (p *Pipeline) reset() {
	w, outcome := p.opts.Weights.Normalize()
	if outcome == taxonomy.WeightsReset && len(p.opts.Weights) > 0 {
		p.logger.Warn("weights sum to zero, using uniform weights")
	}
	p.state = &State{
		RunID:     uuid.NewString(),
		Language:  p.opts.Language,
		Audience:  p.opts.Audience,
		Weights:   w,
		Artifacts: make(map[artifacts.Kind]string),
	}
}

// Restore makes a saved run current. Later stages continue from where it
// stopped.
func (p *Pipeline) Restore(s *State) {
	if s.Artifacts == nil {
		s.Artifacts = make(map[artifacts.Kind]string)
	}
	if s.Audience == "" {
		s.Audience = p.opts.Audience
	}
	if s.Language == "" {
		s.Language = p.opts.Language
	}
	p.state = s
	p.runLogger().Info("run restored", zap.String("stage", string(s.Stage())))
}

func (p *Pipeline) runLogger() *zap.Logger {
	return p.logger.With(zap.String("run_id", p.state.RunID))
}

func (p *Pipeline) runContext(ctx context.Context) context.Context {
	return llm.WithRunID(ctx, p.state.RunID)
}

// Ingest loads the question document. It may be replaced until questions
// have been generated.
func (p *Pipeline) Ingest(ctx context.Context, name, text string) error {
	if p.state.Questions != nil {
		return ErrSourceLocked
	}
	if strings.TrimSpace(text) == "" {
		return expansion.ErrEmptyInput
	}
	p.state.SourceName = name
	p.state.SourceText = text
	p.runLogger().Info("document loaded", zap.String("source", name), zap.Int("bytes", len(text)))
	p.save(ctx)
	return nil
}

// Expand generates the question sets. It does nothing if they exist.
func (p *Pipeline) Expand(ctx context.Context) error {
	if p.state.Questions != nil {
		return nil
	}
	if p.state.SourceText == "" {
		return ErrNoSource
	}

	log := p.runLogger().With(zap.String("stage", stageerr.StageExpand))
	log.Info("stage started")
	start := time.Now()

	sets, err := p.deps.Expander.Expand(p.runContext(ctx), p.state.SourceText)
	if err != nil {
		logStageError(log, err)
		return err
	}

	p.state.Questions = sets
	log.Info("stage finished", zap.Int("topics", len(sets)), zap.Duration("elapsed", time.Since(start)))
	p.save(ctx)
	return nil
}

// SubmitAnswers builds the answer sheet and its per-level grouping and
// writes the answer, grouping and question artifacts. It is accepted once
// per run. A failed artifact write is returned but the answers are kept.
func (p *Pipeline) SubmitAnswers(ctx context.Context, responses answers.Responses) error {
	if p.state.Questions == nil {
		return ErrNoQuestions
	}
	if p.state.Answers != nil {
		return ErrAlreadySubmitted
	}

	sheet := answers.Collect(p.state.Questions, responses)
	p.state.Answers = &sheet
	p.state.Structured = restructure.Restructure(sheet)
	p.runLogger().With(zap.String("stage", stageerr.StageAnswers)).Info("answers submitted",
		zap.Int("answered", responses.Answered()),
		zap.Int("sub_questions", len(p.state.Questions)*len(taxonomy.Levels)),
	)

	err := errors.Join(
		p.persistJSON(ctx, artifacts.StudentAnswers, sheet),
		p.persistJSON(ctx, artifacts.StructuredData, p.state.Structured),
		p.persistJSON(ctx, artifacts.OriginalQuestions, taxonomy.TopicQuestions{Topics: p.state.Questions}),
	)
	p.save(ctx)
	return err
}

// Score grades the answers and evaluates the result. It always calls the
// model, so it doubles as a retry; a new score clears earlier
// recommendations. On failure the previous score, if any, is kept.
func (p *Pipeline) Score(ctx context.Context) error {
	if p.state.Structured == nil {
		return ErrNotAnswered
	}

	log := p.runLogger().With(zap.String("stage", stageerr.StageScore))
	log.Info("stage started")
	start := time.Now()

	scored, err := p.deps.Scorer.Score(p.runContext(ctx), p.state.Structured)
	if err != nil {
		logStageError(log, err)
		return err
	}

	p.state.Scored = scored
	p.state.Recommendations = ""
	delete(p.state.Artifacts, artifacts.Recommendations)
	p.evaluate()
	log.Info("stage finished",
		zap.Float64("composite", p.state.Evaluation.Composite),
		zap.Duration("elapsed", time.Since(start)),
	)

	err = p.persistJSON(ctx, artifacts.StudentScore, scored)
	p.save(ctx)
	return err
}

// Evaluate recomputes the evaluation from the current scores and weights.
func (p *Pipeline) Evaluate() (*evaluation.Evaluation, error) {
	if p.state.Scored == nil {
		return nil, ErrNotScored
	}
	p.evaluate()
	return p.state.Evaluation, nil
}

func (p *Pipeline) evaluate() {
	p.state.Evaluation = evaluation.Evaluate(p.state.Scored, p.state.Weights)
	log := p.runLogger().With(zap.String("stage", stageerr.StageEvaluate))
	for _, w := range p.state.Evaluation.Warnings {
		log.Warn("evaluation warning", zap.String("warning", w))
	}
}

// SetWeights normalizes and applies new level weights. If scores exist the
// evaluation is recomputed and earlier recommendations are cleared.
func (p *Pipeline) SetWeights(ctx context.Context, w taxonomy.Weights) taxonomy.NormalizeOutcome {
	normalized, outcome := w.Normalize()
	p.state.Weights = normalized
	p.runLogger().Info("weights updated", zap.Stringer("weights", normalized), zap.Stringer("outcome", outcome))

	if p.state.Scored != nil {
		p.evaluate()
		p.state.Recommendations = ""
		delete(p.state.Artifacts, artifacts.Recommendations)
	}
	p.save(ctx)
	return outcome
}

// SetAudience changes who the recommendations address. Earlier
// recommendations are cleared.
func (p *Pipeline) SetAudience(ctx context.Context, a coaching.Audience) {
	if a == p.state.Audience {
		return
	}
	p.state.Audience = a
	p.state.Recommendations = ""
	delete(p.state.Artifacts, artifacts.Recommendations)
	p.save(ctx)
}

// Recommend asks for coaching recommendations and writes them to a file.
// It always calls the model. A failed write is returned but the text is
// kept.
func (p *Pipeline) Recommend(ctx context.Context) error {
	if p.state.Evaluation == nil {
		return ErrNotScored
	}

	log := p.runLogger().With(zap.String("stage", stageerr.StageRecommend), zap.String("audience", string(p.state.Audience)))
	log.Info("stage started")
	start := time.Now()

	text, err := p.deps.Recommender.Recommend(p.runContext(ctx), p.state.Evaluation, p.state.Audience)
	if err != nil {
		logStageError(log, err)
		return err
	}

	p.state.Recommendations = text
	log.Info("stage finished", zap.Int("chars", len(text)), zap.Duration("elapsed", time.Since(start)))

	err = p.persist(ctx, artifacts.Recommendations, func() (string, error) {
		return p.deps.Writer.WriteText(ctx, p.state.RunID, artifacts.Recommendations, text)
	})
	p.save(ctx)
	return err
}

func (p *Pipeline) persistJSON(ctx context.Context, kind artifacts.Kind, v any) error {
	return p.persist(ctx, kind, func() (string, error) {
		return p.deps.Writer.WriteJSON(ctx, p.state.RunID, kind, v)
	})
}

func (p *Pipeline) persist(ctx context.Context, kind artifacts.Kind, write func() (string, error)) error {
	path, err := write()
	if err != nil {
		p.runLogger().Error("artifact write failed", zap.String("kind", string(kind)), zap.Error(err))
		return err
	}
	p.state.Artifacts[kind] = path
	return nil
}

// save writes the run to the index. Index failures are logged only.
func (p *Pipeline) save(ctx context.Context) {
	if p.deps.Runs == nil {
		return
	}
	data, err := p.state.MarshalSnapshot()
	if err != nil {
		p.runLogger().Warn("failed to encode run state", zap.Error(err))
		return
	}
	run := &store.Run{
		ID:         p.state.RunID,
		SourceName: p.state.SourceName,
		Language:   string(p.state.Language),
		Audience:   string(p.state.Audience),
		Stage:      string(p.state.Stage()),
		Composite:  p.state.Composite(),
		State:      data,
	}
	if err := p.deps.Runs.Save(ctx, run); err != nil {
		p.runLogger().Warn("failed to save run", zap.Error(err))
	}
}

func logStageError(log *zap.Logger, err error) {
	var se *stageerr.Error
	if errors.As(err, &se) {
		log.Warn("stage failed", zap.Stringer("kind", se.Kind), zap.Error(err))
		return
	}
	log.Warn("stage failed", zap.Error(err))
}

// Summary is a one-line description of the run.
func (p *Pipeline) Summary() string {
	s := p.state
	if c := s.Composite(); c != nil {
		return fmt.Sprintf("run %s: %s, composite %.2f/5.00", s.RunID[:8], s.Stage(), *c)
	}
	return fmt.Sprintf("run %s: %s", s.RunID[:8], s.Stage())
}
