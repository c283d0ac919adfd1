package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skills-analyzer/internal/filtering"
	"github.com/spigell/skills-analyzer/internal/headhunter"
	"github.com/spigell/skills-analyzer/internal/logger"
	"github.com/spigell/skills-analyzer/internal/postings"
	"github.com/spigell/skills-analyzer/internal/secrets"
	"github.com/spigell/skills-analyzer/internal/skills"
)

func loadDictionary(config *Config, log *zap.Logger) (*skills.Dictionary, error) {
	dict, err := skills.LoadDictionary(config.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("loading dictionary: %w", err)
	}
	log.Info("dictionary loaded", zap.String("dictionary", config.Dictionary), zap.Int("skills", dict.Len()))
	return dict, nil
}

// loadPostings runs the shared pipeline: raw records, normalization against
// dict and, when filter is set, the posting filters.
func loadPostings(ctx context.Context, config *Config, dict *skills.Dictionary, log *zap.Logger, filter bool) ([]postings.Posting, error) {
	log = logger.WithDataset(log, inputName(config), config.Dictionary)

	records, readErrs, err := loadRecords(ctx, config, log)
	if err != nil {
		return nil, err
	}
	if err := reportRecordErrors(log, readErrs, config.FailFast); err != nil {
		return nil, err
	}

	normalizer := postings.NewNormalizer(dict)
	items, recErrs, err := normalizer.NormalizeAll(ctx, records, config.Analysis.Workers)
	if err != nil {
		return nil, fmt.Errorf("normalizing postings: %w", err)
	}
	if err := reportRecordErrors(log, recErrs, config.FailFast); err != nil {
		return nil, err
	}

	log.Info("postings normalized",
		zap.Int("records", len(records)),
		zap.Int("postings", len(items)),
		zap.Int("skipped", len(readErrs)+len(recErrs)),
	)

	if !filter {
		return items, nil
	}

	steps, err := filtering.Chain(config.Filters)
	if err != nil {
		return nil, fmt.Errorf("building filters: %w", err)
	}
	filtered, err := filtering.Run(ctx, config.Filters, filtering.Deps{Logger: log}, steps, &postings.Postings{Items: items})
	if err != nil {
		return nil, fmt.Errorf("filtering postings: %w", err)
	}

	// Settings are resolved by Run, so details are only complete afterwards.
	for _, st := range filtering.Describe(steps) {
		log.Debug("filter status",
			zap.String("name", st.Name),
			zap.Bool("enabled", st.Enabled),
			zap.String("reason", st.Reason),
			zap.Any("details", st.Details),
		)
	}
	return filtered.Items, nil
}

func inputName(config *Config) string {
	if strings.EqualFold(config.Input.Source, sourceHeadhunter) {
		return headhunter.Source
	}
	return config.Input.Path
}

func loadRecords(ctx context.Context, config *Config, log *zap.Logger) ([]postings.RawRecord, []*postings.RecordError, error) {
	switch strings.ToLower(strings.TrimSpace(config.Input.Source)) {
	case "", sourceFile:
		records, errs, err := postings.ReadRecordsFile(config.Input.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("reading postings: %w", err)
		}
		return records, errs, nil
	case sourceHeadhunter:
		records, err := fetchHeadhunter(ctx, config, log)
		return records, nil, err
	default:
		return nil, nil, fmt.Errorf("unknown input source %q (want %s or %s)", config.Input.Source, sourceFile, sourceHeadhunter)
	}
}

func fetchHeadhunter(ctx context.Context, config *Config, log *zap.Logger) ([]postings.RawRecord, error) {
	hhConfig := config.Headhunter
	if hhConfig == nil {
		hhConfig = &HeadhunterConfig{}
	}

	token, err := secrets.LoadOptional(secrets.Source{
		Name: "headhunter token",
		File: hhConfig.TokenFile,
		Env:  "HH_TOKEN",
	})
	if err != nil {
		return nil, fmt.Errorf("loading headhunter token: %w", err)
	}

	hh := headhunter.New(log, token, hhConfig.Options)

	if hhConfig.Search != nil {
		log.Info("starting the search", zap.String("search", hhConfig.Search.Text))
	}
	vacancies, err := hh.Search(ctx, hhConfig.Search)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	if hhConfig.FetchDetails {
		if err := hh.FetchDetails(ctx, vacancies); err != nil {
			return nil, fmt.Errorf("fetching vacancy details: %w", err)
		}
	}

	return vacancies.RawRecords(), nil
}

// reportRecordErrors logs every record error, or returns the first one when
// failFast is set.
func reportRecordErrors(log *zap.Logger, errs []*postings.RecordError, failFast bool) error {
	for _, recErr := range errs {
		if failFast {
			return recErr
		}
		log.Warn("skipping malformed record",
			zap.Int("index", recErr.Index),
			zap.Int("line", recErr.Line),
			zap.Error(recErr.Err),
		)
	}
	return nil
}
