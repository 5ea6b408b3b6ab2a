package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// File is a parsed CSV export: the header row plus string-keyed records.
// Keys are normalized (lower-case, trimmed) so detection and mapping share
// one spelling.
type File struct {
	Headers []string
	Rows    []map[string]string
}

// ReadCSV parses a delimited export with a header row. Handles UTF-8 and
// UTF-16 BOMs, sniffs comma vs semicolon delimiters, tolerates ragged rows
// and skips blank ones.
func ReadCSV(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	// UTF-16 exports from spreadsheet tools carry a BOM; decode to UTF-8.
	if b, _ := br.Peek(2); len(b) >= 2 && ((b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF)) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		br = bufio.NewReader(transform.NewReader(br, dec))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	first, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}

	// Semicolon-delimited exports parse as a single comma-free field.
	if len(first) == 1 && strings.Contains(first[0], ";") {
		first = strings.Split(first[0], ";")
		cr.Comma = ';'
	}

	headers := make([]string, len(first))
	for i, h := range first {
		headers[i] = normalizeHeader(strings.TrimPrefix(h, "\uFEFF"))
	}

	f := &File{Headers: headers}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(f.Rows)+2, err)
		}
		if blankRow(record) {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		f.Rows = append(f.Rows, row)
	}
	return f, nil
}

func blankRow(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
