package cmd

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skills-analyzer/internal/analytics"
	"github.com/spigell/skills-analyzer/internal/logger"
	"github.com/spigell/skills-analyzer/internal/postings"
)

const topSkillsLogged = 10

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Normalize raw postings, extract skills and write them as JSON lines",
	Run: func(cmd *cobra.Command, _ []string) {
		withCommand(cmd, func(ctx context.Context, config *Config, log *zap.Logger) error {
			return runExtract(ctx, config, log, viper.GetString("extract.output"), cmd.OutOrStdout())
		})
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("output", "-", "processed postings file, - for stdout")
	viper.BindPFlag("extract.output", extractCmd.Flags().Lookup("output"))
}

func runExtract(ctx context.Context, config *Config, log *zap.Logger, output string, stdout io.Writer) error {
	dict, err := loadDictionary(config, log)
	if err != nil {
		return err
	}
	items, err := loadPostings(ctx, config, dict, log, false)
	if err != nil {
		return err
	}

	for _, p := range items {
		log.Debug("posting processed",
			zap.String("posting_id", p.ID),
			zap.Int("skill_count", p.SkillCount),
			zap.Strings("skills", p.Skills),
		)
	}

	if output == "" || output == "-" {
		if err := postings.WriteJSONLines(stdout, items); err != nil {
			return fmt.Errorf("writing postings: %w", err)
		}
	} else if err := postings.WriteJSONLinesFile(output, items); err != nil {
		return fmt.Errorf("writing postings: %w", err)
	}

	stats := analytics.Summarize(items)
	top := make([]string, 0, topSkillsLogged)
	for _, row := range analytics.Top(analytics.Frequencies(items), topSkillsLogged) {
		top = append(top, fmt.Sprintf("%s (%d)", row.Skill, row.JobCount))
	}
	log.Info("extraction finished",
		zap.String("output", output),
		zap.Int("postings", stats.TotalJobs),
		zap.Int("postings_with_skills", stats.JobsWithSkills),
		zap.Float64("avg_skills_per_job", stats.AvgSkillsPerJob),
		zap.Strings("top_skills", top),
	)
	return nil
}

// withCommand builds the logger and config and runs fn, exiting on error.
func withCommand(cmd *cobra.Command, fn func(ctx context.Context, config *Config, log *zap.Logger) error) {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	l, err := logger.New(logger.Options{
		JSON:   viper.GetBool("json"),
		Debug:  viper.GetBool("debug"),
		Output: viper.GetString("log-file"),
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer l.Sync()

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	l.Debug("starting", zap.String("command", cmd.Name()), zap.String("version", version))

	if err := fn(ctx, config, l); err != nil {
		l.Fatal("exiting", zap.String("command", cmd.Name()), zap.Error(err))
	}
}
