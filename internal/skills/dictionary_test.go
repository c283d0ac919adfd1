package skills

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestNewDictionaryNormalizesAliases(t *testing.T) {
	dict, err := NewDictionary(map[string][]string{
		"Python":           {"Python", "python", "  PY3 "},
		"Machine Learning": {"machine   learning", "", "ML"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dict.Len() != 2 {
		t.Fatalf("expected 2 skills, got %d", dict.Len())
	}

	if got := dict.Extract("Python 3 and machine learning"); !reflect.DeepEqual(got, []string{"Machine Learning", "Python"}) {
		t.Fatalf("unexpected skills: %v", got)
	}

	for input, expect := range map[string]string{"PY3": "Python", "ml": "Machine Learning"} {
		if got, ok := dict.Canonical(input); !ok || got != expect {
			t.Fatalf("Canonical(%q) = %q, %v; expected %q", input, got, ok, expect)
		}
	}

	if got := dict.Matches("py3 only"); len(got) != 1 || got[0].Variant != "py3" {
		t.Fatalf("expected py3 variant, got %+v", got)
	}

	if _, ok := dict.Canonical(""); ok {
		t.Fatalf("blank aliases must be dropped")
	}
}

func TestNewDictionaryReportsEveryConflict(t *testing.T) {
	_, err := NewDictionary(map[string][]string{
		"React":    {"react", "reactjs"},
		"React.js": {"react.js", "reactjs"},
		"Go":       {"go", "golang"},
		"Golang":   {"golang"},
	})
	if err == nil {
		t.Fatalf("expected conflict error")
	}

	if !errors.Is(err, ErrAliasConflict) {
		t.Fatalf("expected ErrAliasConflict, got %v", err)
	}

	var conflict *AliasConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected AliasConflictError, got %T", err)
	}

	// Aliases are reported in ascending order, skills in ascending order.
	if conflict.Alias != "golang" || !reflect.DeepEqual(conflict.Skills, []string{"Go", "Golang"}) {
		t.Fatalf("unexpected first conflict: %+v", conflict)
	}

	if !strings.Contains(err.Error(), `alias "reactjs" is shared by skills React, React.js`) {
		t.Fatalf("expected reactjs conflict in message: %v", err)
	}
}

func TestNewDictionaryConflictIsCaseInsensitive(t *testing.T) {
	_, err := NewDictionary(map[string][]string{
		"SQL":   {"SQL"},
		"MySQL": {"mysql", "sql"},
	})
	if !errors.Is(err, ErrAliasConflict) {
		t.Fatalf("expected ErrAliasConflict, got %v", err)
	}
}

func TestNewDictionaryInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  map[string][]string
	}{
		{name: "nil", raw: nil},
		{name: "empty", raw: map[string][]string{}},
		{name: "blank name", raw: map[string][]string{"  ": {"x"}}},
		{name: "untrimmed name", raw: map[string][]string{" Go": {"go"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewDictionary(tt.raw); !errors.Is(err, ErrInvalidDictionary) {
				t.Fatalf("expected ErrInvalidDictionary, got %v", err)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	dict, err := NewDictionary(map[string][]string{
		"Kubernetes": {"kubernetes", "k8s"},
		"Go":         {"golang"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]string{
		"Kubernetes": "Kubernetes",
		"kubernetes": "Kubernetes",
		"K8S":        "Kubernetes",
		"go":         "Go",
		"Golang":     "Go",
	}
	for input, expect := range cases {
		got, ok := dict.Canonical(input)
		if !ok || got != expect {
			t.Fatalf("Canonical(%q) = %q, %v; expected %q", input, got, ok, expect)
		}
	}

	if _, ok := dict.Canonical("Rust"); ok {
		t.Fatalf("expected Rust to be unknown")
	}
}

func TestLoadDictionary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skills.json")
	if err := os.WriteFile(path, []byte(`{"Python": ["python"], "SQL": ["sql"]}`), 0o600); err != nil {
		t.Fatalf("write dictionary: %v", err)
	}

	dict, err := LoadDictionary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dict.Len() != 2 {
		t.Fatalf("expected 2 skills, got %d", dict.Len())
	}
	if got, ok := dict.Canonical("sql"); !ok || got != "SQL" {
		t.Fatalf("expected SQL, got %q", got)
	}

	if _, err := LoadDictionary(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist error, got %v", err)
	}

	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte(`["python"]`), 0o600); err != nil {
		t.Fatalf("write dictionary: %v", err)
	}
	if _, err := LoadDictionary(broken); !errors.Is(err, ErrInvalidDictionary) {
		t.Fatalf("expected ErrInvalidDictionary, got %v", err)
	}
}
