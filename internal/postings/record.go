package postings

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// ErrMalformedRecord is wrapped by every RecordError caused by input that is not a record.
var ErrMalformedRecord = errors.New("malformed posting record")

// RawRecord is one undecoded input record and its position in the source.
type RawRecord struct {
	// Line is the 1-based line in a JSON-lines source, zero when not applicable.
	Line int
	Data any
}

// Record is the loosely typed shape of a raw posting. Alternative key spellings
// seen in upstream exports are accepted; skills in the input are ignored since
// they are always derived.
type Record struct {
	ID            string `mapstructure:"id"`
	JobID         string `mapstructure:"job_id"`
	Title         string `mapstructure:"title"`
	Company       string `mapstructure:"company"`
	Location      string `mapstructure:"location"`
	Country       string `mapstructure:"country"`
	Description   string `mapstructure:"description"`
	PostedDate    string `mapstructure:"posted_date"`
	PostedDateAlt string `mapstructure:"postedDate"`
	Source        string `mapstructure:"source"`
}

// RecordError reports a single record that could not be normalized.
type RecordError struct {
	Index int
	Line  int
	Err   error
}

func (e *RecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("record at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("record #%d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// DecodeRecord coerces a decoded JSON value into a Record. Numbers are weakly
// converted to strings (numeric ids become "123") and null counts as missing.
// Anything that is not an object, or carries booleans, objects or lists in
// known fields, is malformed.
func DecodeRecord(data any) (Record, error) {
	if _, ok := data.(map[string]any); !ok {
		return Record{}, fmt.Errorf("%w: expected an object, got %T", ErrMalformedRecord, data)
	}

	var rec Record
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rec,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		DecodeHook:       mapstructure.DecodeHookFuncKind(rejectBoolText),
	})
	if err != nil {
		return Record{}, fmt.Errorf("build record decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	if rec.ID == "" {
		rec.ID = rec.JobID
	}
	if rec.PostedDate == "" {
		rec.PostedDate = rec.PostedDateAlt
	}
	return rec, nil
}

// rejectBoolText stops weak typing from turning true into "1".
func rejectBoolText(from, to reflect.Kind, data any) (any, error) {
	if from == reflect.Bool && to == reflect.String {
		return nil, fmt.Errorf("boolean %v where text is expected", data)
	}
	return data, nil
}
