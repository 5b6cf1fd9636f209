package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/learnify/internal/app"
	"github.com/abhisek/learnify/internal/logging"
	"github.com/abhisek/learnify/internal/screens/home"
)

// runApp opens the store, builds dependencies, and launches the TUI. The
// TUI owns the terminal, so logs always go to a file.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logFile := cfg.LogFile
	if logFile == "" {
		if logFile, err = logging.DefaultLogPath(); err != nil {
			return fmt.Errorf("resolve log path: %w", err)
		}
	}
	logger, closeLog, err := logging.New(logging.Options{Mode: cfg.LogMode, File: logFile})
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer closeLog()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	p, perr := buildPipeline(ctx, cfg, st, logger)
	if perr != nil {
		logger.Warn("LLM provider not configured", zap.Error(perr))
	}

	resume, _ := cmd.Flags().GetString("resume")
	if resume != "" {
		if err := restoreRun(ctx, p, st.RunRepo(), resume); err != nil {
			return err
		}
	}

	logger.Info("starting wizard",
		zap.String("output_dir", cfg.OutputDir),
		zap.String("provider", cfg.LLM.Provider),
		zap.Bool("llm_ready", perr == nil),
	)

	return app.Run(app.Options{
		Home: home.Deps{
			Pipeline:  p,
			Runs:      st.RunRepo(),
			Artifacts: st.ArtifactRepo(),
			Threshold: cfg.FocusThreshold,
			LLMReady:  perr == nil,
		},
		SkipWelcome: resume != "",
	})
}
