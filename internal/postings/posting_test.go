package postings

import (
	"reflect"
	"testing"
)

func TestWithSkillsKeepsCountInSync(t *testing.T) {
	p := Posting{ID: "1"}.WithSkills("SQL", "Python", "SQL", "")

	if !reflect.DeepEqual(p.Skills, []string{"Python", "SQL"}) {
		t.Fatalf("unexpected skills: %v", p.Skills)
	}
	if p.SkillCount != 2 {
		t.Fatalf("expected skill count 2, got %d", p.SkillCount)
	}

	empty := p.WithSkills()
	if len(empty.Skills) != 0 || empty.SkillCount != 0 {
		t.Fatalf("expected empty skills, got %v (%d)", empty.Skills, empty.SkillCount)
	}
	if p.SkillCount != 2 {
		t.Fatalf("original posting must not change")
	}
}

func TestPostingsExcludePreservesOrder(t *testing.T) {
	ps := &Postings{Items: []Posting{
		{ID: "1", Country: "US"},
		{ID: "2", Country: "DE"},
		{ID: "3", Country: "US"},
		{ID: "4", Country: "FR"},
	}}

	removed := ps.Exclude(PostingCountryField, []string{"US", "FR"})
	if !reflect.DeepEqual(removed, []string{"1", "3", "4"}) {
		t.Fatalf("unexpected removed ids: %v", removed)
	}
	if ps.Len() != 1 || ps.Items[0].ID != "2" {
		t.Fatalf("unexpected remaining postings: %+v", ps.Items)
	}

	if removed := ps.Exclude(PostingIDField, nil); removed != nil {
		t.Fatalf("expected nothing removed, got %v", removed)
	}
}
