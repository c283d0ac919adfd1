package postings

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spigell/skills-analyzer/internal/skills"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	dict, err := skills.NewDictionary(map[string][]string{
		"Python": {"python"},
		"SQL":    {"sql"},
		"Java":   {"java"},
		"Docker": {"docker"},
	})
	if err != nil {
		t.Fatalf("building dictionary: %v", err)
	}
	n := NewNormalizer(dict)
	n.now = func() time.Time { return fixedNow }
	return n
}

func decodeJSON(t *testing.T, raw string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return data
}

func TestNormalizeScenario(t *testing.T) {
	n := newTestNormalizer(t)

	p, err := n.Normalize(decodeJSON(t, `{
		"id": "job-1",
		"title": "  Data   Engineer ",
		"company": "Acme\nCorp",
		"description": "Looking for a Python and SQL expert",
		"posted_date": "2025-01-02",
		"source": "linkedin"
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ID != "job-1" || p.Title != "Data Engineer" || p.Company != "Acme Corp" {
		t.Fatalf("unexpected normalized fields: %+v", p)
	}
	if !reflect.DeepEqual(p.Skills, []string{"Python", "SQL"}) || p.SkillCount != 2 {
		t.Fatalf("unexpected skills: %v (%d)", p.Skills, p.SkillCount)
	}
	if p.Country != DefaultCountry || p.Location != "" {
		t.Fatalf("expected defaults for missing fields, got country=%q location=%q", p.Country, p.Location)
	}
	if p.PostedDate != "2025-01-02" || p.Source != "linkedin" {
		t.Fatalf("unexpected provenance: %q %q", p.PostedDate, p.Source)
	}
	if !p.ProcessedAt.Equal(fixedNow) || p.SchemaVersion != SchemaVersion {
		t.Fatalf("unexpected processing stamp: %v %q", p.ProcessedAt, p.SchemaVersion)
	}
}

func TestNormalizeDefaultsAndAlternateKeys(t *testing.T) {
	n := newTestNormalizer(t)

	p, err := n.Normalize(decodeJSON(t, `{"job_id": 42, "postedDate": "2024-12-31", "title": "Java dev", "company": null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ID != "42" {
		t.Fatalf("expected numeric id to become \"42\", got %q", p.ID)
	}
	if p.PostedDate != "2024-12-31" {
		t.Fatalf("expected alternate posted date key, got %q", p.PostedDate)
	}
	if p.Source != DefaultSource {
		t.Fatalf("expected default source, got %q", p.Source)
	}
	if p.Company != "" {
		t.Fatalf("expected null company to count as missing, got %q", p.Company)
	}
	if !reflect.DeepEqual(p.Skills, []string{"Java"}) {
		t.Fatalf("unexpected skills: %v", p.Skills)
	}
}

func TestNormalizeIgnoresInputSkills(t *testing.T) {
	n := newTestNormalizer(t)

	p, err := n.Normalize(decodeJSON(t, `{"id": "x", "title": "Chef", "skills": ["Python"], "skill_count": 1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Skills) != 0 || p.SkillCount != 0 {
		t.Fatalf("skills must be derived from text, got %v", p.Skills)
	}
}

func TestNormalizeDerivesStableID(t *testing.T) {
	n := newTestNormalizer(t)

	raw := `{"title": "Docker wrangler", "company": "Initech"}`
	first, err := n.Normalize(decodeJSON(t, raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := n.Normalize(decodeJSON(t, raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID == "" || first.ID != second.ID {
		t.Fatalf("expected stable derived id, got %q and %q", first.ID, second.ID)
	}

	other, _ := n.Normalize(decodeJSON(t, `{"title": "Docker wrangler", "company": "Globex"}`))
	if other.ID == first.ID {
		t.Fatalf("expected different ids for different postings")
	}
}

func TestNormalizeAllDistinguishesIdenticalRecords(t *testing.T) {
	n := newTestNormalizer(t)

	input := "{\"title\": \"Docker wrangler\", \"company\": \"Initech\"}\n" +
		"{\"title\": \"Docker wrangler\", \"company\": \"Initech\"}\n"

	run := func() []string {
		records, readErrs, err := ReadRecords(strings.NewReader(input))
		if err != nil || len(readErrs) != 0 {
			t.Fatalf("reading records: %v %v", err, readErrs)
		}
		out, errs, err := n.NormalizeAll(context.Background(), records, 2)
		if err != nil || len(errs) != 0 {
			t.Fatalf("normalizing records: %v %v", err, errs)
		}
		ids := make([]string, 0, len(out))
		for _, p := range out {
			ids = append(ids, p.ID)
		}
		return ids
	}

	first := run()
	if len(first) != 2 || first[0] == first[1] {
		t.Fatalf("expected two distinct ids, got %v", first)
	}
	if again := run(); !reflect.DeepEqual(first, again) {
		t.Fatalf("expected ids to be stable across runs, got %v and %v", first, again)
	}

	corpus := &Postings{}
	for _, id := range first {
		corpus.Items = append(corpus.Items, Posting{ID: id})
	}
	dropped := corpus.Exclude(PostingIDField, []string{first[0]})
	if len(dropped) != 1 || corpus.Len() != 1 || corpus.Items[0].ID != first[1] {
		t.Fatalf("excluding one copy should keep the other, dropped %v kept %+v", dropped, corpus.Items)
	}
}

func TestNormalizeMalformed(t *testing.T) {
	n := newTestNormalizer(t)

	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "array", raw: `["python"]`},
		{name: "string", raw: `"python"`},
		{name: "null", raw: `null`},
		{name: "object title", raw: `{"title": {"text": "python"}}`},
		{name: "list description", raw: `{"description": ["python", "sql"]}`},
		{name: "boolean title", raw: `{"title": true}`},
		{name: "boolean id", raw: `{"id": false, "title": "python"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := n.Normalize(decodeJSON(t, tt.raw)); !errors.Is(err, ErrMalformedRecord) {
				t.Fatalf("expected ErrMalformedRecord, got %v", err)
			}
		})
	}
}

func TestNormalizeAll(t *testing.T) {
	n := newTestNormalizer(t)

	records := []RawRecord{
		{Line: 1, Data: decodeJSON(t, `{"id": "1", "title": "Python dev"}`)},
		{Line: 2, Data: decodeJSON(t, `[1, 2]`)},
		{Line: 3, Data: decodeJSON(t, `{"id": "3", "description": "SQL and Docker"}`)},
		{Line: 4, Data: decodeJSON(t, `{"id": "4", "title": "Painter"}`)},
	}

	out, errs, err := n.NormalizeAll(context.Background(), records, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := make([]string, 0, len(out))
	for _, p := range out {
		ids = append(ids, p.ID)
	}
	if !reflect.DeepEqual(ids, []string{"1", "3", "4"}) {
		t.Fatalf("expected input order preserved, got %v", ids)
	}

	if len(errs) != 1 || errs[0].Line != 2 || errs[0].Index != 1 {
		t.Fatalf("unexpected record errors: %+v", errs)
	}
	if !errors.Is(errs[0], ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", errs[0])
	}
}

func TestNormalizeAllCancelled(t *testing.T) {
	n := newTestNormalizer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []RawRecord{{Data: map[string]any{"id": "1"}}}
	if _, _, err := n.NormalizeAll(ctx, records, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNormalizeAllEmpty(t *testing.T) {
	n := newTestNormalizer(t)

	out, errs, err := n.NormalizeAll(context.Background(), nil, 0)
	if err != nil || len(out) != 0 || len(errs) != 0 {
		t.Fatalf("expected empty results, got %v %v %v", out, errs, err)
	}
}
