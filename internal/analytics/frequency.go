// Package analytics computes corpus-level statistics over normalized postings.
// Every function is pure: it never mutates its input and returns empty results
// for an empty corpus.
package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/spigell/skills-analyzer/internal/postings"
)

// SkillFrequencyRow is the demand for one skill across the corpus.
type SkillFrequencyRow struct {
	Skill      string  `json:"skill"`
	JobCount   int     `json:"job_count"`
	Percentage float64 `json:"percentage"`
}

// Frequencies counts, for every skill, the postings that mention it. The
// percentage base is the number of postings with at least one skill. Rows are
// ordered by JobCount descending, then by skill name.
func Frequencies(items []postings.Posting) []SkillFrequencyRow {
	counts, base := countSkills(items)
	return frequencyRows(counts, base)
}

func countSkills(items []postings.Posting) (map[string]int, int) {
	counts := make(map[string]int)
	base := 0
	for _, p := range items {
		set := skillSet(p)
		if len(set) == 0 {
			continue
		}
		base++
		for _, s := range set {
			counts[s]++
		}
	}
	return counts, base
}

func frequencyRows(counts map[string]int, base int) []SkillFrequencyRow {
	rows := make([]SkillFrequencyRow, 0, len(counts))
	if base == 0 {
		return rows
	}
	for skill, n := range counts {
		rows = append(rows, SkillFrequencyRow{
			Skill:      skill,
			JobCount:   n,
			Percentage: round2(float64(n) / float64(base) * 100),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].JobCount != rows[j].JobCount {
			return rows[i].JobCount > rows[j].JobCount
		}
		return rows[i].Skill < rows[j].Skill
	})
	return rows
}

// Top returns the first n rows; n <= 0 returns all of them.
func Top(rows []SkillFrequencyRow, n int) []SkillFrequencyRow {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}

// Lookup finds a skill row by case-insensitive name.
func Lookup(rows []SkillFrequencyRow, name string) (SkillFrequencyRow, bool) {
	name = strings.TrimSpace(name)
	for _, row := range rows {
		if strings.EqualFold(row.Skill, name) {
			return row, true
		}
	}
	return SkillFrequencyRow{}, false
}

// skillSet returns the distinct, sorted skills of a posting.
func skillSet(p postings.Posting) []string {
	if len(p.Skills) == 0 {
		return nil
	}
	if sort.StringsAreSorted(p.Skills) && distinctSorted(p.Skills) {
		return p.Skills
	}
	return p.WithSkills(p.Skills...).Skills
}

func distinctSorted(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			return false
		}
	}
	return true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
