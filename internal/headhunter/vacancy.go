package headhunter

import (
	"strings"

	"github.com/spigell/skills-analyzer/internal/postings"
)

type Vacancies struct {
	Items []*Vacancy
}

type Named struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Employer struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
}

type Snippet struct {
	Requirement    string `json:"requirement,omitempty"`
	Responsibility string `json:"responsibility,omitempty"`
}

type Vacancy struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name,omitempty"`
	Area         Named    `json:"area,omitempty"`
	Experience   Named    `json:"experience,omitempty"`
	Schedule     Named    `json:"schedule,omitempty"`
	Employer     Employer `json:"employer,omitempty"`
	AlternateURL string   `json:"alternate_url,omitempty"`
	Description  string   `json:"description,omitempty"`
	KeySkills    []struct {
		Name string `json:"name,omitempty"`
	} `json:"key_skills,omitempty"`
	Snippet     Snippet `json:"snippet,omitempty"`
	PublishedAt string  `json:"published_at,omitempty"`
}

func (v *Vacancies) Len() int {
	return len(v.Items)
}

// Record converts a vacancy into the raw record shape consumed by the
// posting normalizer. HTML markup is stripped from the text fields.
func (va *Vacancy) Record() map[string]any {
	parts := make([]string, 0, 4)
	if va.Description != "" {
		parts = append(parts, StripHTML(va.Description))
	} else {
		parts = append(parts, StripHTML(va.Snippet.Requirement), StripHTML(va.Snippet.Responsibility))
	}
	if len(va.KeySkills) > 0 {
		names := make([]string, 0, len(va.KeySkills))
		for _, ks := range va.KeySkills {
			names = append(names, ks.Name)
		}
		parts = append(parts, "Key skills: "+strings.Join(names, ", "))
	}

	return map[string]any{
		"id":          va.ID,
		"title":       va.Name,
		"company":     va.Employer.Name,
		"location":    va.Area.Name,
		"country":     Country,
		"description": strings.Join(parts, " "),
		"posted_date": va.PublishedAt,
		"source":      Source,
	}
}

// RawRecords converts every vacancy for normalization. Line is the 1-based
// position in the result set.
func (v *Vacancies) RawRecords() []postings.RawRecord {
	out := make([]postings.RawRecord, 0, len(v.Items))
	for i, vacancy := range v.Items {
		out = append(out, postings.RawRecord{Line: i + 1, Data: vacancy.Record()})
	}
	return out
}
