package cmd

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/learnify/internal/artifacts"
	"github.com/abhisek/learnify/internal/coaching"
	"github.com/abhisek/learnify/internal/config"
	"github.com/abhisek/learnify/internal/expansion"
	"github.com/abhisek/learnify/internal/llm"
	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/query"
	"github.com/abhisek/learnify/internal/scoring"
	"github.com/abhisek/learnify/internal/store"
)

// buildPipeline wires the stages to the configured model, the run index and
// the artifact directory. If the provider cannot be built the error is
// returned alongside a pipeline whose model calls fail as unavailable.
func buildPipeline(ctx context.Context, cfg config.Config, st *store.Store, logger *zap.Logger) (*pipeline.Pipeline, error) {
	provider, perr := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), logger)
	if perr != nil {
		provider = unavailableProvider{err: perr}
	}

	runner := query.NewLLMRunner(provider, cfg.Query)
	writer := artifacts.NewWriter(cfg.OutputDir,
		artifacts.WithIndex(st.ArtifactRepo()),
		artifacts.WithLogger(logger),
	)

	p := pipeline.New(pipeline.Deps{
		Expander:    expansion.NewService(runner),
		Scorer:      scoring.NewService(runner),
		Recommender: coaching.NewService(runner, cfg.FocusThreshold),
		Writer:      writer,
		Runs:        st.RunRepo(),
		Logger:      logger,
	}, cfg.PipelineOptions())
	return p, perr
}

// unavailableProvider stands in when no model is configured.
type unavailableProvider struct {
	err error
}

func (u unavailableProvider) Generate(context.Context, llm.Request) (*llm.Response, error) {
	return nil, &llm.ErrProviderUnavailable{Err: u.err}
}

func (u unavailableProvider) ModelID() string {
	return "unavailable"
}
