package postings

import (
	"sort"
	"time"
)

const (
	// SchemaVersion is stamped on every normalized posting.
	SchemaVersion = "1.0"

	DefaultCountry = "UNKNOWN"
	DefaultSource  = "unknown"

	PostingIDField      = "ID"
	PostingCountryField = "Country"
	PostingSourceField  = "Source"
)

// Posting is a normalized job listing with its extracted skills attached.
// Treat it as a value: build skills through WithSkills so SkillCount stays in sync.
type Posting struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Company       string    `json:"company"`
	Location      string    `json:"location"`
	Country       string    `json:"country"`
	Description   string    `json:"description"`
	PostedDate    string    `json:"posted_date"`
	Source        string    `json:"source"`
	Skills        []string  `json:"skills"`
	SkillCount    int       `json:"skill_count"`
	ProcessedAt   time.Time `json:"processed_at"`
	SchemaVersion string    `json:"schema_version"`
}

// WithSkills returns a copy of p carrying the deduplicated, sorted skills and the matching SkillCount.
func (p Posting) WithSkills(skills ...string) Posting {
	seen := make(map[string]struct{}, len(skills))
	set := make([]string, 0, len(skills))
	for _, s := range skills {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		set = append(set, s)
	}
	sort.Strings(set)

	p.Skills = set
	p.SkillCount = len(set)
	return p
}

// GetStringField returns the value of a named string field used by filters.
func (p Posting) GetStringField(name string) string {
	switch name {
	case PostingIDField:
		return p.ID
	case PostingCountryField:
		return p.Country
	case PostingSourceField:
		return p.Source
	default:
		return ""
	}
}

// Postings is an ordered collection of normalized postings.
type Postings struct {
	Items []Posting
}

func (ps *Postings) Len() int {
	return len(ps.Items)
}

// Exclude removes postings whose named field equals one of targets and returns the removed IDs.
// The relative order of the remaining postings is preserved.
func (ps *Postings) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	return ps.Retain(func(p Posting) bool {
		_, drop := set[p.GetStringField(name)]
		return !drop
	})
}

// Retain keeps the postings for which keep returns true and returns the IDs of the dropped ones.
func (ps *Postings) Retain(keep func(Posting) bool) []string {
	var dropped []string
	kept := ps.Items[:0]
	for _, p := range ps.Items {
		if keep(p) {
			kept = append(kept, p)
			continue
		}
		dropped = append(dropped, p.ID)
	}
	ps.Items = kept
	return dropped
}
