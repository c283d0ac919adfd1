package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/spigell/skills-analyzer/internal/ai"
	"github.com/spigell/skills-analyzer/internal/analytics"
	"github.com/spigell/skills-analyzer/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Advisor asks Gemini to read an analytics report.
type Advisor struct {
	generator  contentGenerator
	logger     *zap.Logger
	maxLogLen  int
	maxRetries int
	newBackOff func() backoff.BackOff
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	maxInsights         = 5

	reportSkills = 25
	reportPairs  = 15

	retryBase  = 2 * time.Second
	retryLimit = 30 * time.Second
)

var _ ai.Advisor = (*Advisor)(nil)

func NewAdvisor(generator contentGenerator, logger *zap.Logger, maxRetries, maxLogLength int) *Advisor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Advisor{
		generator:  generator,
		logger:     logger,
		maxLogLen:  maxLogLength,
		maxRetries: maxRetries,
		newBackOff: defaultBackOff,
	}
}

// Summarize sends a trimmed view of the report and parses the reply. Failed
// calls and unparsable replies are retried with exponential backoff.
func (a *Advisor) Summarize(ctx context.Context, report *analytics.Report) (*ai.MarketSummary, error) {
	if report == nil {
		return nil, fmt.Errorf("report is required")
	}
	if a.generator == nil {
		return nil, fmt.Errorf("content generator is required")
	}

	payload, err := json.MarshalIndent(trimReport(report), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report payload: %w", err)
	}
	prompt := buildPrompt(string(payload))

	a.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	operation := func() (*ai.MarketSummary, error) {
		raw, err := a.generator.GenerateContent(ctx, prompt)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, backoff.Permanent(ctxErr)
			}
			return nil, err
		}

		a.logger.Debug("gemini generate content response",
			zap.Int("response_length", utf8.RuneCountInString(raw)),
			zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
		)

		summary, err := parseResponse(raw)
		if err != nil {
			return nil, err
		}
		summary.Raw = raw
		return summary, nil
	}

	attempt := 0
	summary, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(a.newBackOff()),
		backoff.WithMaxTries(uint(a.maxRetries+1)),
		backoff.WithNotify(func(err error, delay time.Duration) {
			attempt++
			a.logger.Warn("retrying gemini request",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("summarize report after %d attempts: %w", attempt+1, err)
	}
	return summary, nil
}

// defaultBackOff doubles the delay from retryBase up to retryLimit with jitter.
func defaultBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryBase
	bo.MaxInterval = retryLimit
	return bo
}

type reportView struct {
	Stats      analytics.Stats               `json:"stats"`
	Skills     []analytics.SkillFrequencyRow `json:"top_skills"`
	Pairs      []analytics.CooccurrencePair  `json:"top_pairs"`
	Categories map[string]int                `json:"category_jobs"`
	Seniority  []seniorityView               `json:"seniority"`
	Saturation []analytics.SaturationBand    `json:"saturation"`
}

type seniorityView struct {
	Bucket        analytics.Bucket `json:"bucket"`
	Postings      int              `json:"postings"`
	AvgSkillCount float64          `json:"avg_skill_count"`
}

func trimReport(r *analytics.Report) reportView {
	view := reportView{
		Stats:      r.Stats,
		Skills:     analytics.Top(r.Skills, reportSkills),
		Pairs:      r.Pairs,
		Categories: make(map[string]int, len(r.Categories)),
		Saturation: r.Saturation,
	}
	if len(view.Pairs) > reportPairs {
		view.Pairs = view.Pairs[:reportPairs]
	}
	for _, c := range r.Categories {
		view.Categories[c.Category] = c.TotalJobs
	}
	for _, s := range r.Seniority {
		view.Seniority = append(view.Seniority, seniorityView{
			Bucket:        s.Bucket,
			Postings:      s.Postings,
			AvgSkillCount: s.AvgSkillCount,
		})
	}
	return view
}

func buildPrompt(reportJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Report:\n{{REPORT_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{REPORT_JSON}}", reportJSON)
	prompt = strings.ReplaceAll(prompt, "{{MAX_INSIGHTS}}", strconv.Itoa(maxInsights))
	return prompt
}

func parseResponse(raw string) (*ai.MarketSummary, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	summary := coerceString(data["summary"])
	if summary == "" {
		return nil, errors.New("parse gemini response: summary is empty")
	}

	out := &ai.MarketSummary{Summary: summary, Insights: []string{}}
	if list, ok := data["insights"].([]any); ok {
		for _, item := range list {
			if s := coerceString(item); s != "" {
				out.Insights = append(out.Insights, s)
			}
		}
	}
	if len(out.Insights) > maxInsights {
		out.Insights = out.Insights[:maxInsights]
	}
	return out, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
