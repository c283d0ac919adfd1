package analytics

import (
	"sort"

	"github.com/spigell/skills-analyzer/internal/postings"
)

// CooccurrencePair counts postings that list both skills. SkillA sorts before
// SkillB; FreqA and FreqB are the marginal job counts of each skill.
type CooccurrencePair struct {
	SkillA string `json:"skill_a"`
	SkillB string `json:"skill_b"`
	Count  int    `json:"count"`
	FreqA  int    `json:"freq_a"`
	FreqB  int    `json:"freq_b"`
}

type pairKey struct {
	a, b string
}

// Cooccurrence counts every unordered skill pair and keeps those seen in at
// least minSupport postings. Pairs are ordered by Count descending, then by
// SkillA and SkillB.
func Cooccurrence(items []postings.Posting, minSupport int) []CooccurrencePair {
	counts, _ := countSkills(items)
	return cooccurrence(items, minSupport, counts)
}

func cooccurrence(items []postings.Posting, minSupport int, freq map[string]int) []CooccurrencePair {
	pairs := make(map[pairKey]int)
	for _, p := range items {
		set := skillSet(p)
		if len(set) < 2 {
			continue
		}
		for i := 0; i < len(set); i++ {
			for j := i + 1; j < len(set); j++ {
				pairs[pairKey{a: set[i], b: set[j]}]++
			}
		}
	}

	out := make([]CooccurrencePair, 0)
	for key, n := range pairs {
		if n < minSupport {
			continue
		}
		out = append(out, CooccurrencePair{
			SkillA: key.a,
			SkillB: key.b,
			Count:  n,
			FreqA:  freq[key.a],
			FreqB:  freq[key.b],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].SkillA != out[j].SkillA {
			return out[i].SkillA < out[j].SkillA
		}
		return out[i].SkillB < out[j].SkillB
	})
	return out
}
