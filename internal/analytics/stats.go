package analytics

import "github.com/spigell/skills-analyzer/internal/postings"

// Stats is the headline summary of a corpus.
type Stats struct {
	TotalJobs       int     `json:"total_jobs"`
	JobsWithSkills  int     `json:"jobs_with_skills"`
	AvgSkillsPerJob float64 `json:"avg_skills_per_job"`
	UniqueSkills    int     `json:"unique_skills"`
}

// Summarize computes Stats. The average is taken over all postings.
func Summarize(items []postings.Posting) Stats {
	counts, withSkills := countSkills(items)
	return summarize(items, counts, withSkills)
}

func summarize(items []postings.Posting, counts map[string]int, withSkills int) Stats {
	st := Stats{
		TotalJobs:      len(items),
		JobsWithSkills: withSkills,
		UniqueSkills:   len(counts),
	}
	if len(items) == 0 {
		return st
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	st.AvgSkillsPerJob = round2(float64(total) / float64(len(items)))
	return st
}
