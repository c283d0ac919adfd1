// Package report renders analytics results as aligned tables, CSV or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spigell/skills-analyzer/internal/ai"
	"github.com/spigell/skills-analyzer/internal/analytics"
)

type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ParseFormat validates a format name; an empty name means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, csv or json)", s)
	}
}

// Options controls rendering.
type Options struct {
	Format Format
	// Dir receives one CSV file per table when Format is csv. Empty writes
	// every table to the output stream.
	Dir string
	// Limit caps skill, pair and match rows. Zero means no limit.
	Limit int
}

// Writer renders results to an output stream.
type Writer struct {
	out  io.Writer
	opts Options
}

func New(out io.Writer, opts Options) *Writer {
	if opts.Format == "" {
		opts.Format = FormatTable
	}
	return &Writer{out: out, opts: opts}
}

// table is the format-neutral shape shared by the table and CSV renderers.
type table struct {
	name   string
	title  string
	header []string
	rows   [][]string
}

// Report renders a full analytics report.
func (w *Writer) Report(rep *analytics.Report) error {
	if w.opts.Format == FormatJSON {
		view := *rep
		view.Skills = analytics.Top(rep.Skills, w.opts.Limit)
		view.Pairs = limitPairs(rep.Pairs, w.opts.Limit)
		return w.json(view)
	}
	return w.tables(reportTables(rep, w.opts.Limit))
}

// Matches renders a job-match ranking.
func (w *Writer) Matches(matches []analytics.JobMatch) error {
	if w.opts.Limit > 0 && len(matches) > w.opts.Limit {
		matches = matches[:w.opts.Limit]
	}
	if w.opts.Format == FormatJSON {
		return w.json(matches)
	}
	return w.tables([]table{matchTable(matches)})
}

// Role renders a role readiness report.
func (w *Writer) Role(rep analytics.RoleReport) error {
	if w.opts.Format == FormatJSON {
		return w.json(rep)
	}
	return w.tables(roleTables(rep))
}

// Summary renders an AI market summary.
func (w *Writer) Summary(s *ai.MarketSummary) error {
	if s == nil {
		return nil
	}
	if w.opts.Format == FormatJSON {
		return w.json(map[string]any{"summary": s.Summary, "insights": s.Insights})
	}
	rows := [][]string{{s.Summary}}
	for _, insight := range s.Insights {
		rows = append(rows, []string{"- " + insight})
	}
	return w.tables([]table{{name: "market_summary", title: "Market summary", header: []string{"summary"}, rows: rows}})
}

func (w *Writer) json(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (w *Writer) tables(tables []table) error {
	switch w.opts.Format {
	case FormatCSV:
		if w.opts.Dir == "" {
			return writeCSVStream(w.out, tables)
		}
		return writeCSVDir(w.opts.Dir, tables)
	default:
		return writeText(w.out, tables)
	}
}

func writeCSVDir(dir string, tables []table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	for _, t := range tables {
		path := filepath.Join(dir, t.name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := writeCSV(f, t); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", path, err)
		}
	}
	return nil
}
