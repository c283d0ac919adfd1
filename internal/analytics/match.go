package analytics

import (
	"sort"
	"strings"

	"github.com/spigell/skills-analyzer/internal/postings"
)

// JobMatch scores one posting against a candidate's known skills.
type JobMatch struct {
	Posting         postings.Posting `json:"posting"`
	MatchedSkills   []string         `json:"matched_skills"`
	MissingSkills   []string         `json:"missing_skills"`
	MatchPercentage float64          `json:"match_percentage"`
}

// MatchJobs ranks postings by the share of their skills the candidate knows.
// Known skills compare case-insensitively. Postings without skills score 0.
// Equal scores keep input order.
func MatchJobs(items []postings.Posting, known []string) []JobMatch {
	have := make(map[string]struct{}, len(known))
	for _, k := range known {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			have[k] = struct{}{}
		}
	}

	out := make([]JobMatch, 0, len(items))
	for _, p := range items {
		m := JobMatch{
			Posting:       p,
			MatchedSkills: []string{},
			MissingSkills: []string{},
		}
		set := skillSet(p)
		for _, s := range set {
			if _, ok := have[strings.ToLower(s)]; ok {
				m.MatchedSkills = append(m.MatchedSkills, s)
			} else {
				m.MissingSkills = append(m.MissingSkills, s)
			}
		}
		if len(set) > 0 {
			m.MatchPercentage = round2(float64(len(m.MatchedSkills)) / float64(len(set)) * 100)
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchPercentage > out[j].MatchPercentage
	})
	return out
}
