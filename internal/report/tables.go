package report

import (
	"strconv"
	"strings"

	"github.com/spigell/skills-analyzer/internal/analytics"
)

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func limitPairs(pairs []analytics.CooccurrencePair, n int) []analytics.CooccurrencePair {
	if n <= 0 || n >= len(pairs) {
		return pairs
	}
	return pairs[:n]
}

func reportTables(rep *analytics.Report, limit int) []table {
	st := rep.Stats
	tables := []table{{
		name:   "stats",
		title:  "Summary",
		header: []string{"total_jobs", "jobs_with_skills", "avg_skills_per_job", "unique_skills"},
		rows: [][]string{{
			strconv.Itoa(st.TotalJobs),
			strconv.Itoa(st.JobsWithSkills),
			pct(st.AvgSkillsPerJob),
			strconv.Itoa(st.UniqueSkills),
		}},
	}}

	tables = append(tables, frequencyTable("skill_frequency", "Skill demand", analytics.Top(rep.Skills, limit)))

	pairs := table{
		name:   "skill_pairs",
		title:  "Skill pairs",
		header: []string{"skill_a", "skill_b", "count", "freq_a", "freq_b"},
	}
	for _, p := range limitPairs(rep.Pairs, limit) {
		pairs.rows = append(pairs.rows, []string{
			p.SkillA, p.SkillB, strconv.Itoa(p.Count), strconv.Itoa(p.FreqA), strconv.Itoa(p.FreqB),
		})
	}
	tables = append(tables, pairs)

	categories := table{
		name:   "categories",
		title:  "Categories",
		header: []string{"category", "total_jobs", "skill", "job_count", "percentage"},
	}
	for _, c := range rep.Categories {
		for _, s := range c.Skills {
			categories.rows = append(categories.rows, []string{
				c.Category, strconv.Itoa(c.TotalJobs), s.Skill, strconv.Itoa(s.JobCount), pct(s.Percentage),
			})
		}
	}
	tables = append(tables, categories)

	seniority := table{
		name:   "seniority",
		title:  "Seniority",
		header: []string{"bucket", "postings", "avg_skill_count", "top_skills"},
	}
	for _, s := range rep.Seniority {
		top := make([]string, 0, len(s.TopSkills))
		for _, row := range s.TopSkills {
			top = append(top, row.Skill)
		}
		seniority.rows = append(seniority.rows, []string{
			string(s.Bucket), strconv.Itoa(s.Postings), pct(s.AvgSkillCount), strings.Join(top, ";"),
		})
	}
	tables = append(tables, seniority)

	saturation := table{
		name:   "saturation",
		title:  "Market saturation",
		header: []string{"level", "skills"},
	}
	for _, b := range rep.Saturation {
		saturation.rows = append(saturation.rows, []string{string(b.Level), strings.Join(b.Skills, ";")})
	}
	tables = append(tables, saturation)

	return tables
}

func frequencyTable(name, title string, rows []analytics.SkillFrequencyRow) table {
	t := table{name: name, title: title, header: []string{"skill", "job_count", "percentage"}}
	for _, r := range rows {
		t.rows = append(t.rows, []string{r.Skill, strconv.Itoa(r.JobCount), pct(r.Percentage)})
	}
	return t
}

func matchTable(matches []analytics.JobMatch) table {
	t := table{
		name:   "job_matches",
		title:  "Job matches",
		header: []string{"id", "title", "company", "match_percentage", "matched_skills", "missing_skills"},
	}
	for _, m := range matches {
		t.rows = append(t.rows, []string{
			m.Posting.ID,
			m.Posting.Title,
			m.Posting.Company,
			pct(m.MatchPercentage),
			strings.Join(m.MatchedSkills, ";"),
			strings.Join(m.MissingSkills, ";"),
		})
	}
	return t
}

func roleTables(rep analytics.RoleReport) []table {
	summary := table{
		name:   "role_summary",
		title:  "Role: " + rep.Role,
		header: []string{"role", "readiness", "avg_demand", "competition", "most_critical", "missing"},
		rows: [][]string{{
			rep.Role, pct(rep.Readiness), pct(rep.AvgDemand), rep.Competition, rep.MostCritical, strings.Join(rep.Missing, ";"),
		}},
	}

	skills := table{
		name:   "role_skills",
		title:  "Role skill demand",
		header: []string{"skill", "job_count", "percentage", "priority"},
	}
	for _, s := range rep.Skills {
		skills.rows = append(skills.rows, []string{s.Skill, strconv.Itoa(s.JobCount), pct(s.Percentage), string(s.Priority)})
	}

	path := table{
		name:   "learning_path",
		title:  "Learning path",
		header: []string{"priority", "skills"},
	}
	for _, phase := range rep.LearningPath {
		path.rows = append(path.rows, []string{string(phase.Priority), strings.Join(phase.Skills, ";")})
	}

	return []table{summary, skills, path}
}
