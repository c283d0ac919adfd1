package analytics

import (
	"strings"

	"github.com/spigell/skills-analyzer/internal/postings"
	"github.com/spigell/skills-analyzer/internal/utils"
)

// Bucket is a seniority class derived from a posting title.
type Bucket string

const (
	Junior   Bucket = "Junior"
	MidLevel Bucket = "Mid-Level"
	Senior   Bucket = "Senior"
	Manager  Bucket = "Manager"
	Other    Bucket = "Other"
)

// SeniorityRule assigns Bucket to titles containing any of Keywords as a whole
// word.
type SeniorityRule struct {
	Bucket   Bucket   `mapstructure:"bucket" json:"bucket"`
	Keywords []string `mapstructure:"keywords" json:"keywords"`
}

// SeniorityRules are evaluated in order; the first matching rule wins.
type SeniorityRules []SeniorityRule

// DefaultSeniorityRules checks Senior before Manager so "Senior Manager" is
// Senior, and Junior first so "Junior Lead" stays Junior.
func DefaultSeniorityRules() SeniorityRules {
	return SeniorityRules{
		{Bucket: Junior, Keywords: []string{"junior", "jr", "entry", "intern", "internship", "graduate", "trainee"}},
		{Bucket: MidLevel, Keywords: []string{"mid", "middle", "intermediate"}},
		{Bucket: Senior, Keywords: []string{"senior", "sr", "lead", "principal", "staff"}},
		{Bucket: Manager, Keywords: []string{"manager", "head", "director", "vp"}},
	}
}

// Classify maps a title to the first matching bucket, or Other.
func (r SeniorityRules) Classify(title string) Bucket {
	title = strings.ToLower(utils.NormalizeText(title))
	if title == "" {
		return Other
	}
	for _, rule := range r {
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(utils.NormalizeText(kw))
			if kw != "" && utils.ContainsWord(title, kw) {
				return rule.Bucket
			}
		}
	}
	return Other
}

// SeniorityRollup summarises the postings that fell into one bucket.
type SeniorityRollup struct {
	Bucket        Bucket              `json:"bucket"`
	Postings      int                 `json:"postings"`
	AvgSkillCount float64             `json:"avg_skill_count"`
	TopSkills     []SkillFrequencyRow `json:"top_skills"`
}

// BySeniority groups postings by title bucket. Buckets appear in rule order
// followed by Other; empty buckets are omitted. TopSkills holds at most topN
// rows, all of them when topN <= 0.
func BySeniority(items []postings.Posting, rules SeniorityRules, topN int) []SeniorityRollup {
	order := make([]Bucket, 0, len(rules)+1)
	seen := make(map[Bucket]bool, len(rules)+1)
	for _, rule := range rules {
		if !seen[rule.Bucket] {
			seen[rule.Bucket] = true
			order = append(order, rule.Bucket)
		}
	}
	if !seen[Other] {
		order = append(order, Other)
	}

	groups := make(map[Bucket][]postings.Posting)
	for _, p := range items {
		b := rules.Classify(p.Title)
		groups[b] = append(groups[b], p)
	}

	out := make([]SeniorityRollup, 0, len(groups))
	for _, b := range order {
		group := groups[b]
		if len(group) == 0 {
			continue
		}
		total := 0
		for _, p := range group {
			total += len(skillSet(p))
		}
		out = append(out, SeniorityRollup{
			Bucket:        b,
			Postings:      len(group),
			AvgSkillCount: round2(float64(total) / float64(len(group))),
			TopSkills:     Top(Frequencies(group), topN),
		})
	}
	return out
}
