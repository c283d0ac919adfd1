package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skills-analyzer/internal/analytics"
	"github.com/spigell/skills-analyzer/internal/skills"
)

const PromptNoRole = "No role, rank jobs only"

var errNoSkills = errors.New("no known skills given")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank postings by how well they match your skills",
	Run: func(cmd *cobra.Command, _ []string) {
		known, _ := cmd.Flags().GetStringSlice("skills")
		role, _ := cmd.Flags().GetString("role")

		withCommand(cmd, func(ctx context.Context, config *Config, log *zap.Logger) error {
			if len(known) == 0 && role == "" {
				var err error
				role, known, err = promptProfile(config.Analysis.RoleTable())
				if err != nil {
					return err
				}
			}
			return runMatch(ctx, config, log, known, role, cmd.OutOrStdout())
		})
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringSlice("skills", nil, "comma separated skills you already have")
	matchCmd.Flags().String("role", "", "target role for a readiness report")
}

func runMatch(ctx context.Context, config *Config, log *zap.Logger, known []string, role string, out io.Writer) error {
	known = cleanSkills(known)

	var required []string
	if role != "" {
		roles := config.Analysis.RoleTable()
		name, ok := findRole(roles, role)
		if !ok {
			return fmt.Errorf("unknown role %q (known roles: %s)", role, strings.Join(roles.Names(), ", "))
		}
		role, required = name, roles[name]
	}
	if len(known) == 0 && role == "" {
		return errNoSkills
	}

	dict, err := loadDictionary(config, log)
	if err != nil {
		return err
	}
	known = canonicalSkills(dict, log, known)
	required = canonicalSkills(dict, log, required)

	items, err := loadPostings(ctx, config, dict, log, true)
	if err != nil {
		return err
	}

	w, err := newReportWriter(config, out)
	if err != nil {
		return err
	}

	if len(known) > 0 {
		matches := analytics.MatchJobs(items, known)
		log.Info("postings ranked",
			zap.Strings("known_skills", known),
			zap.Int("postings", len(matches)),
		)
		if err := w.Matches(matches); err != nil {
			return fmt.Errorf("rendering matches: %w", err)
		}
	}

	if role != "" {
		rep := analytics.RoleReadiness(analytics.Frequencies(items), role, required, known)
		log.Info("role readiness",
			zap.String("role", role),
			zap.Float64("readiness", rep.Readiness),
			zap.String("competition", rep.Competition),
		)
		if err := w.Role(rep); err != nil {
			return fmt.Errorf("rendering role report: %w", err)
		}
	}
	return nil
}

func findRole(roles analytics.Roles, name string) (string, bool) {
	for _, r := range roles.Names() {
		if strings.EqualFold(r, strings.TrimSpace(name)) {
			return r, true
		}
	}
	return "", false
}

// canonicalSkills maps each skill to its dictionary spelling so aliases such
// as "golang" match postings tagged "Go". Unknown skills are kept as given.
// Duplicates after mapping are dropped.
func canonicalSkills(dict *skills.Dictionary, log *zap.Logger, in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		name, ok := dict.Canonical(s)
		if !ok {
			log.Warn("skill is not in the dictionary", zap.String("skill", s))
			name = s
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// promptProfile asks for a target role and the skills already known.
func promptProfile(roles analytics.Roles) (string, []string, error) {
	rolePrompt := promptui.Select{
		Label: "Choose a target role",
		Items: append(roles.Names(), PromptNoRole),
		Size:  10,
	}
	_, role, err := rolePrompt.Run()
	if err != nil {
		return "", nil, err
	}
	if role == PromptNoRole {
		role = ""
	}

	skillsPrompt := promptui.Prompt{
		Label: "Skills you have (comma separated)",
	}
	answer, err := skillsPrompt.Run()
	if err != nil {
		return "", nil, err
	}

	return role, cleanSkills(strings.Split(answer, ",")), nil
}
