package filtering

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skills-analyzer/internal/postings"
)

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes postings listed in an exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	if f.path == "" {
		f.path = strings.TrimSpace(viper.GetString("filters.exclude-file"))
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, ps *postings.Postings) (*postings.Postings, Step, error) {
	initial := ps.Len()
	if f.path == "" {
		return ps, Step{Initial: initial, Dropped: 0, Left: ps.Len()}, nil
	}

	ids, err := ReadExcludedIDs(f.path)
	if err != nil {
		return ps, Step{}, fmt.Errorf("getting excluded postings from file: %w", err)
	}

	removed := ps.Exclude(postings.PostingIDField, ids)
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding postings based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_postings", removed),
			zap.Int("postings_left", ps.Len()),
		)
	}

	return ps, Step{Initial: initial, Dropped: len(removed), Left: ps.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

// ReadExcludedIDs reads a JSON array of posting IDs. An empty file excludes nothing.
func ReadExcludedIDs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return ids, nil
}
