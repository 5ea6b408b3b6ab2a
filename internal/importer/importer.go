package importer

import (
	"io"

	"lighter-lens/internal/domain"
)

// Result is one completed import: which profile matched, how confident the
// detection was, the mapped trades and how many rows were dropped.
type Result struct {
	Profile    string
	Confidence float64
	Trades     []*domain.Trade
	Dropped    int
}

// Import reads a CSV export, detects its format and maps every row.
// Returns ErrUnrecognizedFormat when detection fails; callers then collect
// a manual ColumnMapping and call ImportWithMapping on the same file.
func Import(r io.Reader) (*Result, error) {
	f, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}

	det, err := Detect(f.Headers)
	if err != nil {
		return nil, err
	}

	res := mapRows(f, profileMapping(det.Profile))
	res.Profile = det.Profile
	res.Confidence = det.Confidence
	return res, nil
}

// Batch builds the persistence record for this import.
func (r *Result) Batch(id, fileName string, createdAt int64) *domain.ImportBatch {
	return &domain.ImportBatch{
		ID:         id,
		Profile:    r.Profile,
		FileName:   fileName,
		TradeCount: len(r.Trades),
		Dropped:    r.Dropped,
		CreatedAt:  createdAt,
	}
}

// ImportWithMapping maps a parsed file through a user-supplied column
// binding, for files no profile recognizes.
func ImportWithMapping(f *File, mapping ColumnMapping) (*Result, error) {
	if !mapping.Complete() {
		return nil, ErrIncompleteMapping
	}
	res := mapRows(f, mapping)
	res.Profile = "manual"
	return res, nil
}

func mapRows(f *File, mapping ColumnMapping) *Result {
	res := &Result{}
	for i, row := range f.Rows {
		t, ok := mapping.MapRow(row, i)
		if !ok {
			res.Dropped++
			continue
		}
		res.Trades = append(res.Trades, t)
	}
	return res
}

// profileMapping returns the column binding for a known profile name.
func profileMapping(name string) ColumnMapping {
	for _, p := range knownProfiles {
		if p.name == name {
			return p.mapping
		}
	}
	return ColumnMapping{}
}
