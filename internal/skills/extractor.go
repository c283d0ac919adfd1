package skills

import (
	"strings"

	"github.com/spigell/skills-analyzer/internal/utils"
)

// Match records a canonical skill found in text and the alias that matched it.
type Match struct {
	Skill   string `json:"skill"`
	Variant string `json:"matched_variant"`
}

// Matches scans text for every skill of the dictionary. For each skill the
// aliases are tried in dictionary order and the first whole-word hit wins.
// The result is ordered by canonical skill name.
func (d *Dictionary) Matches(text string) []Match {
	if d == nil || text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	var found []Match
	for _, e := range d.entries {
		for _, alias := range e.aliases {
			if utils.ContainsWord(lower, alias) {
				found = append(found, Match{Skill: e.name, Variant: alias})
				break
			}
		}
	}
	return found
}

// Extract returns the sorted set of canonical skills mentioned in text.
func (d *Dictionary) Extract(text string) []string {
	matches := d.Matches(text)
	if len(matches) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Skill)
	}
	return out
}

// Extract is a convenience wrapper around Dictionary.Extract.
func Extract(text string, dict *Dictionary) []string {
	return dict.Extract(text)
}
