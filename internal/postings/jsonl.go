package postings

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

const maxLineSize = 16 * 1024 * 1024

// ReadRecords reads raw records from r. Input is either JSON lines (one object
// per line, blank lines skipped) or a single JSON array. Lines that are not
// valid JSON are returned as record errors; reading continues past them.
func ReadRecords(r io.Reader) ([]RawRecord, []*RecordError, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read postings: %w", err)
	}

	if first == '[' {
		return readArray(br)
	}
	return readLines(br)
}

// ReadRecordsFile opens path and reads raw records from it.
func ReadRecordsFile(path string) ([]RawRecord, []*RecordError, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open postings: %w", err)
	}
	defer file.Close()

	return ReadRecords(file)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}

func readArray(r io.Reader) ([]RawRecord, []*RecordError, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var items []json.RawMessage
	if err := dec.Decode(&items); err != nil {
		return nil, nil, fmt.Errorf("%w: decode json array: %v", ErrMalformedRecord, err)
	}

	records := make([]RawRecord, 0, len(items))
	var errs []*RecordError
	for i, item := range items {
		data, err := decodeValue(item)
		if err != nil {
			errs = append(errs, &RecordError{Index: i, Err: err})
			continue
		}
		records = append(records, RawRecord{Data: data})
	}
	return records, errs, nil
}

func readLines(r io.Reader) ([]RawRecord, []*RecordError, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []RawRecord
	var errs []*RecordError
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		data, err := decodeValue(raw)
		if err != nil {
			errs = append(errs, &RecordError{Index: len(records) + len(errs), Line: line, Err: err})
			continue
		}
		records = append(records, RawRecord{Line: line, Data: data})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read postings at line %d: %w", line+1, err)
	}
	return records, errs, nil
}

func decodeValue(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after json value", ErrMalformedRecord)
	}
	return data, nil
}

// WriteJSONLines writes one JSON object per posting.
func WriteJSONLines(w io.Writer, items []Posting) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, p := range items {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encode posting %s: %w", p.ID, err)
		}
	}
	return nil
}

// WriteJSONLinesFile writes postings to path, truncating any existing file.
func WriteJSONLinesFile(path string, items []Posting) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	bw := bufio.NewWriter(file)
	if err := WriteJSONLines(bw, items); err != nil {
		file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return file.Close()
}
