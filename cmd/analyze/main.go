// Package main analyzes a trade history CSV export: detects the format,
// maps rows to canonical trades, runs the analytics suite and writes the
// report. Optionally persists the import to Postgres and the ClickHouse
// archive.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"lighter-lens/internal/importer"
	"lighter-lens/internal/reporting"
	chstore "lighter-lens/internal/storage/clickhouse"
	"lighter-lens/internal/storage/migrations"
	pgstore "lighter-lens/internal/storage/postgres"
)

func main() {
	input := flag.String("input", "", "Trade history CSV file (required)")
	outputDir := flag.String("output-dir", "output", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("LENS_POSTGRES_DSN"), "PostgreSQL connection string to persist the import")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("LENS_CLICKHOUSE_DSN"), "ClickHouse connection string to archive trades")
	flag.Parse()

	logger := log.New(os.Stdout, "[analyze] ", log.LstdFlags)

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: --input is required")
		flag.Usage()
		os.Exit(1)
	}

	f, err := os.Open(*input)
	if err != nil {
		logger.Fatalf("open input: %v", err)
	}
	defer f.Close()

	res, err := importer.Import(f)
	if err != nil {
		if errors.Is(err, importer.ErrUnrecognizedFormat) {
			logger.Fatalf("unrecognized CSV format: no known profile matches the headers of %s", *input)
		}
		logger.Fatalf("import: %v", err)
	}

	logger.Printf("detected profile %q (confidence %.0f%%), %d trades, %d rows dropped",
		res.Profile, res.Confidence*100, len(res.Trades), res.Dropped)

	report := reporting.NewGenerator().Generate(res.Trades, filepath.Base(*input), res.Profile, res.Dropped)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Fatalf("create output dir: %v", err)
	}

	mdPath := filepath.Join(*outputDir, "REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		logger.Fatalf("write markdown report: %v", err)
	}

	csvPath := filepath.Join(*outputDir, "MARKETS.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderMarketsCSV(report.Markets)), 0o644); err != nil {
		logger.Fatalf("write markets csv: %v", err)
	}

	seriesPath := filepath.Join(*outputDir, "CUMULATIVE.csv")
	if err := os.WriteFile(seriesPath, []byte(reporting.RenderSeriesCSV(report.Cumulative)), 0o644); err != nil {
		logger.Fatalf("write series csv: %v", err)
	}

	logger.Printf("report written:")
	logger.Printf("  - %s", mdPath)
	logger.Printf("  - %s", csvPath)
	logger.Printf("  - %s", seriesPath)

	ctx := context.Background()

	if *postgresDSN != "" {
		if err := persistImport(ctx, *postgresDSN, *input, res); err != nil {
			logger.Fatalf("persist import: %v", err)
		}
		logger.Printf("import persisted to postgres")
	}

	if *clickhouseDSN != "" {
		if err := archiveTrades(ctx, *clickhouseDSN, res); err != nil {
			logger.Fatalf("archive trades: %v", err)
		}
		logger.Printf("trades archived to clickhouse")
	}
}

func persistImport(ctx context.Context, dsn, input string, res *importer.Result) error {
	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return err
	}

	batch := res.Batch(uuid.NewString(), filepath.Base(input), time.Now().UnixMilli())
	return pgstore.NewImportStore(pool).InsertBatch(ctx, batch, res.Trades)
}

func archiveTrades(ctx context.Context, dsn string, res *importer.Result) error {
	conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	return chstore.NewTradeArchiveStore(conn).InsertTrades(ctx, res.Trades)
}
