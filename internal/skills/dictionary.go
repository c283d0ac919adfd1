package skills

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spigell/skills-analyzer/internal/utils"
)

var (
	// ErrAliasConflict is wrapped by every AliasConflictError.
	ErrAliasConflict = errors.New("alias shared by multiple skills")
	// ErrInvalidDictionary reports a dictionary that cannot be used at all.
	ErrInvalidDictionary = errors.New("invalid skills dictionary")
)

// AliasConflictError describes a single alias claimed by more than one canonical skill.
type AliasConflictError struct {
	Alias  string
	Skills []string
}

func (e *AliasConflictError) Error() string {
	return fmt.Sprintf("alias %q is shared by skills %s", e.Alias, strings.Join(e.Skills, ", "))
}

func (e *AliasConflictError) Unwrap() error {
	return ErrAliasConflict
}

// Dictionary maps canonical skill names to their lowercase alias variants.
// It is immutable once built and safe for concurrent use.
type Dictionary struct {
	entries []entry
	index   map[string]int
}

type entry struct {
	name    string
	aliases []string
}

// NewDictionary validates raw and builds a Dictionary. Aliases are compared
// case-insensitively after whitespace normalization; blank aliases are dropped
// and duplicates within one skill are collapsed. Every alias claimed by two or
// more skills is reported, joined into a single error.
func NewDictionary(raw map[string][]string) (*Dictionary, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no skills defined", ErrInvalidDictionary)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	d := &Dictionary{
		entries: make([]entry, 0, len(names)),
		index:   make(map[string]int, len(names)),
	}
	owners := make(map[string][]string)

	for _, name := range names {
		canonical := utils.NormalizeText(name)
		if canonical == "" {
			return nil, fmt.Errorf("%w: blank skill name", ErrInvalidDictionary)
		}
		if canonical != name {
			return nil, fmt.Errorf("%w: skill name %q has surrounding or repeated whitespace", ErrInvalidDictionary, name)
		}

		e := entry{name: name}
		seen := make(map[string]struct{})
		for _, alias := range raw[name] {
			alias = normalizeAlias(alias)
			if alias == "" {
				continue
			}
			if _, ok := seen[alias]; ok {
				continue
			}
			seen[alias] = struct{}{}
			e.aliases = append(e.aliases, alias)
			owners[alias] = append(owners[alias], name)
		}

		d.index[name] = len(d.entries)
		d.entries = append(d.entries, e)
	}

	if err := conflicts(owners); err != nil {
		return nil, err
	}

	return d, nil
}

// ReadDictionary decodes a JSON object of canonical name to alias list.
func ReadDictionary(r io.Reader) (*Dictionary, error) {
	var raw map[string][]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode json: %v", ErrInvalidDictionary, err)
	}
	return NewDictionary(raw)
}

// LoadDictionary reads a JSON skills dictionary from path.
func LoadDictionary(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open skills dictionary: %w", err)
	}
	defer file.Close()

	d, err := ReadDictionary(file)
	if err != nil {
		return nil, fmt.Errorf("load skills dictionary %q: %w", path, err)
	}
	return d, nil
}

// Len returns the number of canonical skills.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Canonical resolves name to its canonical spelling, matching either the
// canonical name case-insensitively or any alias.
func (d *Dictionary) Canonical(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	if _, ok := d.index[name]; ok {
		return name, true
	}
	needle := normalizeAlias(name)
	for _, e := range d.entries {
		if strings.ToLower(e.name) == needle {
			return e.name, true
		}
	}
	for _, e := range d.entries {
		for _, alias := range e.aliases {
			if alias == needle {
				return e.name, true
			}
		}
	}
	return "", false
}

func normalizeAlias(alias string) string {
	return strings.ToLower(utils.NormalizeText(alias))
}

func conflicts(owners map[string][]string) error {
	aliases := make([]string, 0)
	for alias, skills := range owners {
		if len(skills) > 1 {
			aliases = append(aliases, alias)
		}
	}
	if len(aliases) == 0 {
		return nil
	}
	sort.Strings(aliases)

	errs := make([]error, 0, len(aliases))
	for _, alias := range aliases {
		errs = append(errs, &AliasConflictError{Alias: alias, Skills: owners[alias]})
	}
	return errors.Join(errs...)
}
