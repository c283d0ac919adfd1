package analytics

import "github.com/spigell/skills-analyzer/internal/postings"

// Options tunes Build.
type Options struct {
	// MinSupport of zero means DefaultMinSupport. Below zero every pair is kept,
	// as with Cooccurrence.
	MinSupport int
	TopN       int
	Categories Categories
	Seniority  SeniorityRules
}

// DefaultMinSupport is the co-occurrence threshold used when none is given.
const DefaultMinSupport = 5

// Report bundles every aggregation over one corpus.
type Report struct {
	Stats      Stats               `json:"stats"`
	Skills     []SkillFrequencyRow `json:"skills"`
	Pairs      []CooccurrencePair  `json:"pairs"`
	Categories []CategoryRollup    `json:"categories"`
	Seniority  []SeniorityRollup   `json:"seniority"`
	Saturation []SaturationBand    `json:"saturation"`
}

// Build computes a full report. Zero-valued options fall back to defaults.
func Build(items []postings.Posting, opts Options) *Report {
	if opts.MinSupport == 0 {
		opts.MinSupport = DefaultMinSupport
	}
	if opts.Categories == nil {
		opts.Categories = DefaultCategories()
	}
	if opts.Seniority == nil {
		opts.Seniority = DefaultSeniorityRules()
	}

	counts, withSkills := countSkills(items)
	rows := frequencyRows(counts, withSkills)

	return &Report{
		Stats:      summarize(items, counts, withSkills),
		Skills:     rows,
		Pairs:      cooccurrence(items, opts.MinSupport, counts),
		Categories: SortedCategories(byCategory(rows, opts.Categories)),
		Seniority:  BySeniority(items, opts.Seniority, opts.TopN),
		Saturation: Saturation(rows),
	}
}
