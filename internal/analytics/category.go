package analytics

import (
	"sort"

	"github.com/spigell/skills-analyzer/internal/postings"
)

// Categories maps a category name to its member skills. A skill may belong to
// several categories; membership is not a partition.
type Categories map[string][]string

// CategoryRollup aggregates the demand of the skills of one category.
type CategoryRollup struct {
	Category  string              `json:"category"`
	TotalJobs int                 `json:"total_jobs"`
	Skills    []SkillFrequencyRow `json:"skills"`
}

// DefaultCategories returns the built-in category table.
func DefaultCategories() Categories {
	return Categories{
		"Soft Skills":        {"Communication", "Leadership", "Teamwork", "Problem Solving", "Sales", "Customer Service", "Negotiation"},
		"Business Tools":     {"Excel", "PowerPoint", "Project Management", "CRM", "Salesforce", "SAP", "Power BI", "Tableau"},
		"Programming":        {"Python", "JavaScript", "Java", "TypeScript", "C++", "C#", "Go", "Ruby", "PHP", "Swift", "Kotlin", "Rust"},
		"Web Development":    {"React", "Angular", "Vue.js", "Node.js", "Django", "Flask", "Express"},
		"Databases":          {"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch", "Oracle"},
		"Cloud & DevOps":     {"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform", "Jenkins", "Git", "CI/CD"},
		"Data & Analytics":   {"Data Analysis", "Business Analysis", "Financial Analysis", "Big Data", "ETL", "Spark", "Kafka"},
		"AI & ML":            {"Machine Learning", "Deep Learning", "TensorFlow", "PyTorch"},
		"Marketing":          {"Social Media", "SEO", "Content Marketing", "Google Analytics", "Digital Marketing"},
		"Design":             {"UI/UX", "Figma", "Photoshop", "Adobe Illustrator", "Sketch"},
		"Quality & Process":  {"Quality Assurance", "Agile", "Scrum", "Test Automation", "Selenium"},
		"APIs & Integration": {"REST API", "GraphQL", "Microservices"},
	}
}

// ByCategory rolls the frequency table up per category. Categories whose
// skills never occur in the corpus are omitted, as are unknown member skills.
func ByCategory(items []postings.Posting, categories Categories) map[string]CategoryRollup {
	return byCategory(Frequencies(items), categories)
}

func byCategory(rows []SkillFrequencyRow, categories Categories) map[string]CategoryRollup {
	out := make(map[string]CategoryRollup)
	if len(rows) == 0 {
		return out
	}

	for category, members := range categories {
		want := make(map[string]struct{}, len(members))
		for _, m := range members {
			want[m] = struct{}{}
		}

		rollup := CategoryRollup{Category: category}
		for _, row := range rows {
			if _, ok := want[row.Skill]; !ok {
				continue
			}
			rollup.TotalJobs += row.JobCount
			rollup.Skills = append(rollup.Skills, row)
		}
		if len(rollup.Skills) == 0 {
			continue
		}
		out[category] = rollup
	}
	return out
}

// SortedCategories orders rollups by TotalJobs descending, then by name.
func SortedCategories(rollups map[string]CategoryRollup) []CategoryRollup {
	out := make([]CategoryRollup, 0, len(rollups))
	for _, r := range rollups {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalJobs != out[j].TotalJobs {
			return out[i].TotalJobs > out[j].TotalJobs
		}
		return out[i].Category < out[j].Category
	})
	return out
}
