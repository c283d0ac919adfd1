package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skills-analyzer/internal/postings"
	"github.com/spigell/skills-analyzer/internal/utils"
)

type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

// fieldFilter keeps postings whose field value is one of the configured values.
type fieldFilter struct {
	toggle
	name   string
	field  string
	values func(*Config) []string
	allow  []string
}

// NewCountries creates a filter that keeps postings from the configured countries.
func NewCountries() Filter {
	return &fieldFilter{
		name:   "country",
		field:  postings.PostingCountryField,
		values: func(cfg *Config) []string { return cfg.Countries },
	}
}

// NewSources creates a filter that keeps postings from the configured sources.
func NewSources() Filter {
	return &fieldFilter{
		name:   "source",
		field:  postings.PostingSourceField,
		values: func(cfg *Config) []string { return cfg.Sources },
	}
}

func (f *fieldFilter) Name() string { return f.name }

func (f *fieldFilter) Validate(cfg *Config) error {
	f.allow = nil
	if cfg == nil {
		return nil
	}
	for _, v := range f.values(cfg) {
		v = strings.TrimSpace(v)
		if v != "" {
			f.allow = append(f.allow, v)
		}
	}
	return nil
}

func (f *fieldFilter) Apply(_ context.Context, deps Deps, ps *postings.Postings) (*postings.Postings, Step, error) {
	initial := ps.Len()
	if len(f.allow) == 0 {
		return ps, Step{Initial: initial, Dropped: 0, Left: ps.Len()}, nil
	}

	excluded := ps.Retain(func(p postings.Posting) bool {
		value := p.GetStringField(f.field)
		for _, a := range f.allow {
			if strings.EqualFold(a, value) {
				return true
			}
		}
		return false
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding postings by "+f.name,
			zap.Strings("allowed", f.allow),
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", ps.Len()),
		)
	}

	return ps, Step{Initial: initial, Dropped: len(excluded), Left: ps.Len()}, nil
}

func (f *fieldFilter) Status() Status {
	details := map[string]string{}
	if len(f.allow) > 0 {
		details["allowed"] = strings.Join(f.allow, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type titleKeywordsFilter struct {
	toggle
	keywords []string
}

// NewTitleKeywords creates a filter that keeps postings whose title contains
// one of the configured keywords as a whole word.
func NewTitleKeywords() Filter {
	return &titleKeywordsFilter{}
}

func (f *titleKeywordsFilter) Name() string { return "title_keywords" }

func (f *titleKeywordsFilter) Validate(cfg *Config) error {
	f.keywords = nil
	if cfg == nil {
		return nil
	}
	for _, kw := range cfg.TitleKeywords {
		kw = strings.ToLower(utils.NormalizeText(kw))
		if kw != "" {
			f.keywords = append(f.keywords, kw)
		}
	}
	return nil
}

func (f *titleKeywordsFilter) Apply(_ context.Context, deps Deps, ps *postings.Postings) (*postings.Postings, Step, error) {
	initial := ps.Len()
	if len(f.keywords) == 0 {
		return ps, Step{Initial: initial, Dropped: 0, Left: ps.Len()}, nil
	}

	excluded := ps.Retain(func(p postings.Posting) bool {
		title := strings.ToLower(p.Title)
		for _, kw := range f.keywords {
			if utils.ContainsWord(title, kw) {
				return true
			}
		}
		return false
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding postings without title keywords",
			zap.Strings("keywords", f.keywords),
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", ps.Len()),
		)
	}

	return ps, Step{Initial: initial, Dropped: len(excluded), Left: ps.Len()}, nil
}

func (f *titleKeywordsFilter) Status() Status {
	details := map[string]string{}
	if len(f.keywords) > 0 {
		details["keywords"] = strings.Join(f.keywords, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type minSkillsFilter struct {
	toggle
	min int
}

// NewMinSkills creates a filter that removes postings with fewer extracted skills than configured.
func NewMinSkills() Filter {
	return &minSkillsFilter{}
}

func (f *minSkillsFilter) Name() string { return "min_skills" }

func (f *minSkillsFilter) Validate(cfg *Config) error {
	f.min = 0
	if cfg == nil {
		return nil
	}
	if cfg.MinSkills < 0 {
		return fmt.Errorf("min skills must not be negative, got %d", cfg.MinSkills)
	}
	f.min = cfg.MinSkills
	return nil
}

func (f *minSkillsFilter) Apply(_ context.Context, deps Deps, ps *postings.Postings) (*postings.Postings, Step, error) {
	initial := ps.Len()
	if f.min == 0 {
		return ps, Step{Initial: initial, Dropped: 0, Left: ps.Len()}, nil
	}

	excluded := ps.Retain(func(p postings.Posting) bool {
		return p.SkillCount >= f.min
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding postings with too few skills",
			zap.Int("min_skills", f.min),
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", ps.Len()),
		)
	}

	return ps, Step{Initial: initial, Dropped: len(excluded), Left: ps.Len()}, nil
}

func (f *minSkillsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min_skills": strconv.Itoa(f.min)},
	}
}
