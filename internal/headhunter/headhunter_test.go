package headhunter

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

func writeJSON(t *testing.T, w http.ResponseWriter, gz bool, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if !gz {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			t.Errorf("encode: %v", err)
		}
		return
	}
	w.Header().Set("Content-Encoding", "gzip")
	zw := gzip.NewWriter(w)
	defer zw.Close()
	if err := json.NewEncoder(zw).Encode(v); err != nil {
		t.Errorf("encode: %v", err)
	}
}

func TestSearchFollowsPages(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != SearchPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("text"); got != "golang" {
			t.Errorf("expected text=golang, got %q", got)
		}
		if got := r.URL.Query().Get("per_page"); got != perPage {
			t.Errorf("expected default per_page, got %q", got)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", auth)
		}

		switch r.URL.Query().Get("page") {
		case "0":
			writeJSON(t, w, false, map[string]any{
				"items": []any{map[string]any{"id": "1", "name": "Go Developer", "area": map[string]any{"id": "1", "name": "Moscow"}}},
				"found": 2, "pages": 2, "page": 0, "per_page": 1,
			})
		case "1":
			writeJSON(t, w, true, map[string]any{
				"items": []any{map[string]any{"id": "2", "name": "Senior Go Engineer", "employer": map[string]any{"name": "Acme"}}},
				"found": 2, "pages": 2, "page": 1, "per_page": 1,
			})
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer srv.Close()

	client := New(zap.NewNop(), "secret", Options{})
	client.APIURL = srv.URL

	got, err := client.Search(context.Background(), &SearchParams{Text: "golang"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if got.Len() != 2 || got.Items[0].ID != "1" || got.Items[1].ID != "2" {
		t.Fatalf("unexpected vacancies: %+v", got.Items)
	}
	if got.Items[0].Area.Name != "Moscow" || got.Items[1].Employer.Name != "Acme" {
		t.Fatalf("nested fields not decoded: %+v %+v", got.Items[0], got.Items[1])
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 requests, got %d", calls.Load())
	}
}

func TestSearchBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	client := New(nil, "", Options{})
	client.APIURL = srv.URL

	_, err := client.Search(context.Background(), nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusForbidden {
		t.Fatalf("expected status error, got %v", err)
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status in message, got %q", err.Error())
	}
}

func TestFetchDetailsKeepsSnippetOnFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SearchPath + "/1":
			writeJSON(t, w, true, map[string]any{
				"id": "1", "name": "Go Developer",
				"description": "<p>Go and <b>PostgreSQL</b></p>",
				"key_skills":  []any{map[string]any{"name": "Docker"}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := New(nil, "", Options{RequestsPerSecond: 100})
	client.APIURL = srv.URL

	vacancies := &Vacancies{Items: []*Vacancy{
		{ID: "1", Name: "Go Developer", Snippet: Snippet{Requirement: "Go"}},
		{ID: "2", Name: "Python Developer", Snippet: Snippet{Requirement: "Python"}},
	}}
	if err := client.FetchDetails(context.Background(), vacancies); err != nil {
		t.Fatalf("FetchDetails returned error: %v", err)
	}
	if vacancies.Items[0].Description == "" || len(vacancies.Items[0].KeySkills) != 1 {
		t.Fatalf("expected full vacancy, got %+v", vacancies.Items[0])
	}
	if vacancies.Items[0].Snippet.Requirement != "Go" {
		t.Fatalf("expected snippet to be carried over, got %+v", vacancies.Items[0].Snippet)
	}
	if vacancies.Items[1].Snippet.Requirement != "Python" || vacancies.Items[1].Description != "" {
		t.Fatalf("failed fetch should keep search result, got %+v", vacancies.Items[1])
	}
}

func TestBuildParams(t *testing.T) {
	t.Parallel()

	q := buildParams(&SearchParams{
		Text:      "data engineer",
		Areas:     []int{1, 2},
		Schedules: []string{"remote"},
		PerPage:   "50",
		Period:    7,
	})

	want := map[string][]string{
		"text":     {"data engineer"},
		"area":     {"1", "2"},
		"schedule": {"remote"},
		"per_page": {"50"},
		"period":   {"7"},
	}
	if !reflect.DeepEqual(map[string][]string(q), want) {
		t.Fatalf("unexpected params: %v", q)
	}
}

func TestVacancyRecord(t *testing.T) {
	t.Parallel()

	v := &Vacancy{
		ID:          "42",
		Name:        "Backend Developer",
		Area:        Named{Name: "Saint Petersburg"},
		Employer:    Employer{Name: "Acme"},
		PublishedAt: "2024-05-01T10:00:00+0300",
		Snippet: Snippet{
			Requirement:    "Experience with <highlighttext>Python</highlighttext> and SQL",
			Responsibility: "Build APIs",
		},
		KeySkills: []struct {
			Name string `json:"name,omitempty"`
		}{{Name: "Docker"}, {Name: "Git"}},
	}

	got := v.Record()
	want := map[string]any{
		"id":          "42",
		"title":       "Backend Developer",
		"company":     "Acme",
		"location":    "Saint Petersburg",
		"country":     Country,
		"description": "Experience with Python and SQL Build APIs Key skills: Docker, Git",
		"posted_date": "2024-05-01T10:00:00+0300",
		"source":      Source,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected record:\n got %v\nwant %v", got, want)
	}

	raw := (&Vacancies{Items: []*Vacancy{v}}).RawRecords()
	if len(raw) != 1 || raw[0].Line != 1 {
		t.Fatalf("unexpected raw records: %+v", raw)
	}
}

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "plain text", want: "plain text"},
		{in: "<p>Go</p><p>SQL</p>", want: "Go SQL"},
		{in: "Use <b>Kafka</b> &amp; <em>Redis</em>", want: "Use Kafka & Redis"},
		{in: "<ul><li>Docker</li><li>K8s</li></ul>", want: "Docker K8s"},
		{in: "", want: ""},
	}

	for _, tc := range tests {
		if got := StripHTML(tc.in); got != tc.want {
			t.Fatalf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
