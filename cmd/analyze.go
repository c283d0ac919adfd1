package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skills-analyzer/internal/ai"
	"github.com/spigell/skills-analyzer/internal/ai/gemini"
	"github.com/spigell/skills-analyzer/internal/analytics"
	"github.com/spigell/skills-analyzer/internal/logger"
	"github.com/spigell/skills-analyzer/internal/report"
	"github.com/spigell/skills-analyzer/internal/secrets"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Aggregate skill demand, co-occurrence, categories and seniority",
	Run: func(cmd *cobra.Command, _ []string) {
		withCommand(cmd, func(ctx context.Context, config *Config, log *zap.Logger) error {
			advisor, err := newAdvisor(ctx, config.AI, log)
			if err != nil {
				log.Warn("skipping AI summary", zap.Error(err))
			}
			return runAnalyze(ctx, config, log, advisor, cmd.OutOrStdout())
		})
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Int("min-support", 0, "minimum postings for a skill pair to be reported")
	analyzeCmd.Flags().Int("top-n", 0, "top skills listed per seniority bucket")

	viper.BindPFlag("analysis.min-support", analyzeCmd.Flags().Lookup("min-support"))
	viper.BindPFlag("analysis.top-n", analyzeCmd.Flags().Lookup("top-n"))
}

func runAnalyze(ctx context.Context, config *Config, log *zap.Logger, advisor ai.Advisor, out io.Writer) error {
	if config.Analysis.MinSupport < 1 {
		return fmt.Errorf("%w: analysis.min-support must be at least 1, got %d", errInvalidConfig, config.Analysis.MinSupport)
	}

	dict, err := loadDictionary(config, log)
	if err != nil {
		return err
	}
	items, err := loadPostings(ctx, config, dict, log, true)
	if err != nil {
		return err
	}

	rep := analytics.Build(items, analytics.Options{
		MinSupport: config.Analysis.MinSupport,
		TopN:       config.Analysis.TopN,
		Categories: config.Analysis.CategoryTable(),
		Seniority:  config.Analysis.SeniorityRules(),
	})
	log.Info("report built",
		zap.Int("postings", rep.Stats.TotalJobs),
		zap.Int("unique_skills", rep.Stats.UniqueSkills),
		zap.Int("pairs", len(rep.Pairs)),
		zap.Int("min_support", config.Analysis.MinSupport),
	)

	w, err := newReportWriter(config, out)
	if err != nil {
		return err
	}
	if err := w.Report(rep); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	if advisor == nil {
		return nil
	}
	summary, err := advisor.Summarize(ctx, rep)
	if err != nil {
		log.Warn("AI summary failed", zap.Error(err))
		return nil
	}
	if err := w.Summary(summary); err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}
	return nil
}

func newReportWriter(config *Config, out io.Writer) (*report.Writer, error) {
	format, err := report.ParseFormat(config.Output.Format)
	if err != nil {
		return nil, err
	}
	return report.New(out, report.Options{
		Format: format,
		Dir:    config.Output.Dir,
		Limit:  config.Output.Limit,
	}), nil
}

// newAdvisor returns nil without error when AI is disabled.
func newAdvisor(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Advisor, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	advisorLogger := logger.WithAI(log, "gemini", generator.Model()).With(
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	return gemini.NewAdvisor(generator, advisorLogger, cfg.Gemini.MaxRetries, cfg.Gemini.MaxLogLength), nil
}
