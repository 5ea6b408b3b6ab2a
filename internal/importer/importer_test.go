package importer

import (
	"errors"
	"strings"
	"testing"
)

const lighterCSV = `Market,Side,Date,Trade Value,Size,Price,Closed PnL,Fee,Role,Type
BTC-USD,Long,2025-01-02 10:30:00,10537.62,0.25,42150.50,103.20,1.25,Maker,Limit
ETH-USD,Short,2025-01-02 11:00:00,2250.00,1,2250.00,-40.00,0.90,Taker,Market
BTC-USD,Long,bad-date,10537.62,0.25,42150.50,20.00,1.25,Taker,Market
`

func TestImport_LighterFile(t *testing.T) {
	res, err := Import(strings.NewReader(lighterCSV))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if res.Profile != ProfileLighter {
		t.Errorf("Profile = %s, want lighter", res.Profile)
	}
	if len(res.Trades) != 2 {
		t.Fatalf("mapped %d trades, want 2", len(res.Trades))
	}
	if res.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1 (bad date row)", res.Dropped)
	}
	if res.Trades[0].Market != "BTC-USD" || res.Trades[0].ClosedPnL != 103.20 {
		t.Errorf("first trade wrong: %+v", res.Trades[0])
	}
	if res.Trades[0].ID == res.Trades[1].ID {
		t.Error("imported trades must have distinct deterministic ids")
	}
}

func TestImport_UnknownRoutesToManual(t *testing.T) {
	csv := "a,b,c\n1,2,3\n"

	_, err := Import(strings.NewReader(csv))
	if !errors.Is(err, ErrUnrecognizedFormat) {
		t.Fatalf("error = %v, want ErrUnrecognizedFormat", err)
	}

	// Manual flow over the same file.
	f, err := ReadCSV(strings.NewReader("When,Pair,Dir,Profit\n2025-01-02,btc-usd,long,5\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	res, err := ImportWithMapping(f, ColumnMapping{Date: "when", Market: "pair", Side: "dir", ClosedPnL: "profit"})
	if err != nil {
		t.Fatalf("ImportWithMapping() error = %v", err)
	}
	if res.Profile != "manual" || len(res.Trades) != 1 {
		t.Errorf("manual import wrong: %+v", res)
	}
	if res.Trades[0].ClosedPnL != 5 {
		t.Errorf("ClosedPnL = %v, want 5", res.Trades[0].ClosedPnL)
	}
}

func TestImportWithMapping_RequiresCoreBindings(t *testing.T) {
	f := &File{Headers: []string{"x"}, Rows: []map[string]string{{"x": "1"}}}

	_, err := ImportWithMapping(f, ColumnMapping{Date: "x"})
	if !errors.Is(err, ErrIncompleteMapping) {
		t.Errorf("error = %v, want ErrIncompleteMapping", err)
	}
}

func TestReadCSV_SemicolonDelimited(t *testing.T) {
	csv := "date;market;side;size;price;pnl;fee\n2025-01-02;BTC-USD;long;1;100;5;0.1\n"

	f, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(f.Headers) != 7 {
		t.Fatalf("headers = %v, want 7 semicolon-split columns", f.Headers)
	}
	if f.Rows[0]["market"] != "BTC-USD" {
		t.Errorf("row value = %q", f.Rows[0]["market"])
	}
}

func TestReadCSV_SkipsBlankRowsAndBOM(t *testing.T) {
	csv := "\uFEFFdate,market,side,size,price,pnl,fee\n\n2025-01-02,BTC-USD,long,1,100,5,0.1\n,,,,,,\n"

	f, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if f.Headers[0] != "date" {
		t.Errorf("first header = %q, want BOM-stripped %q", f.Headers[0], "date")
	}
	if len(f.Rows) != 1 {
		t.Errorf("rows = %d, want 1 (blanks skipped)", len(f.Rows))
	}
}
