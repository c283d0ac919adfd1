package postings

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/skills-analyzer/internal/skills"
	"github.com/spigell/skills-analyzer/internal/utils"
)

// idNamespace seeds deterministic ids for records that arrive without one.
var idNamespace = uuid.MustParse("8d4f2a61-3c0b-5e7a-9f12-6b0e4c8d1a37")

const defaultWorkers = 4

// Normalizer maps raw records into Postings and attaches extracted skills.
type Normalizer struct {
	dict *skills.Dictionary
	now  func() time.Time
}

func NewNormalizer(dict *skills.Dictionary) *Normalizer {
	return &Normalizer{
		dict: dict,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Normalize converts one decoded record into a Posting. It fails only when data
// is not a record; every missing field falls back to its default.
func (n *Normalizer) Normalize(data any) (Posting, error) {
	return n.normalizeAt(data, 0, 0)
}

// normalizeAt normalizes the record found at position pos of a batch, read
// from line of the input. Both take part in the derived id.
func (n *Normalizer) normalizeAt(data any, pos, line int) (Posting, error) {
	rec, err := DecodeRecord(data)
	if err != nil {
		return Posting{}, err
	}
	return n.fromRecord(rec, pos, line), nil
}

func (n *Normalizer) fromRecord(rec Record, pos, line int) Posting {
	p := Posting{
		ID:            strings.TrimSpace(rec.ID),
		Title:         utils.NormalizeText(rec.Title),
		Company:       utils.NormalizeText(rec.Company),
		Location:      utils.NormalizeText(rec.Location),
		Country:       strings.TrimSpace(rec.Country),
		Description:   utils.NormalizeText(rec.Description),
		PostedDate:    strings.TrimSpace(rec.PostedDate),
		Source:        strings.TrimSpace(rec.Source),
		ProcessedAt:   n.now(),
		SchemaVersion: SchemaVersion,
	}

	if p.Country == "" {
		p.Country = DefaultCountry
	}
	if p.Source == "" {
		p.Source = DefaultSource
	}
	if p.ID == "" {
		p.ID = derivedID(p, pos, line)
	}

	return p.WithSkills(n.dict.Extract(p.Title + " " + p.Description)...)
}

// derivedID returns an id computed from the posting content and its position
// in the input. The same input yields the same ids, and identical postings in
// one batch still get distinct ones.
func derivedID(p Posting, pos, line int) string {
	key := strings.Join([]string{
		strconv.Itoa(pos), strconv.Itoa(line),
		p.Source, p.Company, p.Title, p.Location, p.PostedDate, p.Description,
	}, "\x1f")
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// NormalizeAll normalizes records on up to workers goroutines. Postings come
// back in input order; records that fail are reported individually and left out.
// The returned error is non-nil only when ctx is done.
func (n *Normalizer) NormalizeAll(ctx context.Context, records []RawRecord, workers int) ([]Posting, []*RecordError, error) {
	if workers <= 0 {
		workers = defaultWorkers
	}

	results := make([]Posting, len(records))
	failures := make([]*RecordError, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, raw := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := n.normalizeAt(raw.Data, i, raw.Line)
			if err != nil {
				failures[i] = &RecordError{Index: i, Line: raw.Line, Err: err}
				return nil
			}
			results[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("normalize postings: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("normalize postings: %w", err)
	}

	out := make([]Posting, 0, len(records))
	var errs []*RecordError
	for i := range records {
		if failures[i] != nil {
			errs = append(errs, failures[i])
			continue
		}
		out = append(out, results[i])
	}
	return out, errs, nil
}
