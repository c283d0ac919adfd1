package analytics

import (
	"sort"
	"strings"
)

// Roles maps a job role to the skills it requires.
type Roles map[string][]string

// DefaultRoles returns the built-in role table.
func DefaultRoles() Roles {
	return Roles{
		"Software Engineer":     {"Python", "JavaScript", "SQL", "Git", "REST API", "Docker", "AWS", "React", "Agile"},
		"Data Analyst":          {"SQL", "Excel", "Python", "Data Analysis", "Tableau", "Power BI", "Communication"},
		"Data Scientist":        {"Python", "Machine Learning", "SQL", "Deep Learning", "TensorFlow", "PyTorch", "Data Analysis"},
		"DevOps Engineer":       {"Docker", "Kubernetes", "AWS", "Terraform", "CI/CD", "Jenkins", "Git", "Python"},
		"Frontend Developer":    {"JavaScript", "TypeScript", "React", "Angular", "Vue.js", "UI/UX", "Git"},
		"Backend Developer":     {"Python", "Java", "Node.js", "SQL", "PostgreSQL", "REST API", "Microservices", "Docker"},
		"Project Manager":       {"Project Management", "Agile", "Scrum", "Communication", "Leadership", "Excel"},
		"Business Analyst":      {"Business Analysis", "SQL", "Excel", "Communication", "Data Analysis", "Power BI"},
		"Marketing Specialist":  {"Digital Marketing", "SEO", "Social Media", "Content Marketing", "Google Analytics", "Communication"},
		"Sales Representative":  {"Sales", "Communication", "Negotiation", "CRM", "Salesforce", "Customer Service"},
		"QA Engineer":           {"Quality Assurance", "Test Automation", "Selenium", "Agile", "SQL", "Git"},
		"UI/UX Designer":        {"UI/UX", "Figma", "Sketch", "Photoshop", "Adobe Illustrator", "Communication"},
		"Cloud Architect":       {"AWS", "Azure", "GCP", "Kubernetes", "Terraform", "Microservices"},
		"Financial Analyst":     {"Financial Analysis", "Excel", "SQL", "Power BI", "Communication"},
		"Customer Success Lead": {"Customer Service", "Communication", "CRM", "Leadership", "Problem Solving"},
	}
}

// Names returns the role names in sorted order.
func (r Roles) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Priority ranks how urgently a role skill should be learned.
type Priority string

const (
	Critical  Priority = "Critical"
	Important Priority = "Important"
	Valuable  Priority = "Valuable"
)

// PriorityFor maps a demand percentage to a learning priority.
func PriorityFor(percentage float64) Priority {
	switch {
	case percentage >= 20:
		return Critical
	case percentage >= 10:
		return Important
	default:
		return Valuable
	}
}

// RoleSkill is a required role skill with its market demand.
type RoleSkill struct {
	SkillFrequencyRow
	Priority Priority `json:"priority"`
}

// LearningPhase groups skills still to learn at one priority.
type LearningPhase struct {
	Priority Priority `json:"priority"`
	Skills   []string `json:"skills"`
}

// RoleReport describes market demand for a role and a candidate's readiness.
type RoleReport struct {
	Role         string          `json:"role"`
	Required     []string        `json:"required"`
	Skills       []RoleSkill     `json:"skills"`
	AvgDemand    float64         `json:"avg_demand"`
	MostCritical string          `json:"most_critical,omitempty"`
	Competition  string          `json:"competition"`
	Matched      []string        `json:"matched"`
	Missing      []string        `json:"missing"`
	Readiness    float64         `json:"readiness"`
	LearningPath []LearningPhase `json:"learning_path"`
}

// RoleReadiness compares the role's required skills with the market demand in
// rows and with the candidate's known skills. Skills absent from rows are
// reported as missing but carry no demand.
func RoleReadiness(rows []SkillFrequencyRow, role string, required, known []string) RoleReport {
	have := make(map[string]struct{}, len(known))
	for _, k := range known {
		have[strings.ToLower(strings.TrimSpace(k))] = struct{}{}
	}

	rep := RoleReport{
		Role:         role,
		Required:     []string{},
		Skills:       []RoleSkill{},
		Matched:      []string{},
		Missing:      []string{},
		LearningPath: []LearningPhase{},
	}

	seen := make(map[string]bool, len(required))
	for _, r := range required {
		key := strings.ToLower(strings.TrimSpace(r))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		rep.Required = append(rep.Required, r)

		if _, ok := have[key]; ok {
			rep.Matched = append(rep.Matched, r)
		} else {
			rep.Missing = append(rep.Missing, r)
		}
		if row, ok := Lookup(rows, r); ok {
			rep.Skills = append(rep.Skills, RoleSkill{SkillFrequencyRow: row, Priority: PriorityFor(row.Percentage)})
		}
	}

	if len(rep.Required) > 0 {
		rep.Readiness = round2(float64(len(rep.Matched)) / float64(len(rep.Required)) * 100)
	}

	sort.SliceStable(rep.Skills, func(i, j int) bool {
		if rep.Skills[i].Percentage != rep.Skills[j].Percentage {
			return rep.Skills[i].Percentage > rep.Skills[j].Percentage
		}
		return rep.Skills[i].Skill < rep.Skills[j].Skill
	})

	if len(rep.Skills) > 0 {
		total := 0.0
		for _, s := range rep.Skills {
			total += s.Percentage
		}
		rep.AvgDemand = round2(total / float64(len(rep.Skills)))
		rep.MostCritical = rep.Skills[0].Skill
	}
	rep.Competition = competition(rep.AvgDemand)

	phases := map[Priority][]string{}
	for _, s := range rep.Skills {
		if _, ok := have[strings.ToLower(s.Skill)]; ok {
			continue
		}
		phases[s.Priority] = append(phases[s.Priority], s.Skill)
	}
	for _, p := range []Priority{Critical, Important, Valuable} {
		if len(phases[p]) > 0 {
			rep.LearningPath = append(rep.LearningPath, LearningPhase{Priority: p, Skills: phases[p]})
		}
	}
	return rep
}

func competition(avg float64) string {
	switch {
	case avg > 20:
		return "High"
	case avg > 10:
		return "Medium"
	default:
		return "Accessible"
	}
}
