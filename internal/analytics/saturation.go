package analytics

// SaturationLevel classifies how common a skill is across postings.
type SaturationLevel string

const (
	Saturated   SaturationLevel = "Saturated"
	Competitive SaturationLevel = "Competitive"
	Emerging    SaturationLevel = "Emerging"
	Niche       SaturationLevel = "Niche"
)

// SaturationBand lists the skills that share a level.
type SaturationBand struct {
	Level  SaturationLevel `json:"level"`
	Skills []string        `json:"skills"`
}

// LevelFor maps a demand percentage to its level.
func LevelFor(percentage float64) SaturationLevel {
	switch {
	case percentage >= 30:
		return Saturated
	case percentage >= 15:
		return Competitive
	case percentage >= 5:
		return Emerging
	default:
		return Niche
	}
}

// Saturation groups frequency rows into levels, most saturated first. Skills
// keep their frequency order within a band and empty bands are omitted.
func Saturation(rows []SkillFrequencyRow) []SaturationBand {
	levels := []SaturationLevel{Saturated, Competitive, Emerging, Niche}
	groups := make(map[SaturationLevel][]string, len(levels))
	for _, row := range rows {
		l := LevelFor(row.Percentage)
		groups[l] = append(groups[l], row.Skill)
	}

	out := make([]SaturationBand, 0, len(levels))
	for _, l := range levels {
		if len(groups[l]) == 0 {
			continue
		}
		out = append(out, SaturationBand{Level: l, Skills: groups[l]})
	}
	return out
}
