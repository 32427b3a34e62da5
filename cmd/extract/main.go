// Command extract parses remittance PDFs from the command line. It accepts a
// single file or a directory of PDFs and writes the results as JSON, CSV or
// XLSX.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"remitex/internal/config"
	"remitex/internal/domain"
	"remitex/internal/export"
	"remitex/internal/pdfext"
	"remitex/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		format      = flag.String("format", "json", "output format: json, csv or xlsx")
		out         = flag.String("out", "", "output file (default stdout; required for a directory input with xlsx)")
		concurrency = flag.Int("concurrency", 0, "parallel workers for directory input (default from config)")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: extract [flags] <file.pdf | directory>")
	}
	input := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *concurrency <= 0 {
		*concurrency = cfg.Batch.Concurrency
	}

	pages := pdfext.New(pdfext.Config{
		RowTolerance:     cfg.Extract.RowTolerance,
		WordGapFactor:    cfg.Extract.WordGapFactor,
		ColumnGapMin:     cfg.Extract.ColumnGapMin,
		ColumnSupportPct: cfg.Extract.ColumnSupportPct,
	})
	extractSvc := service.NewExtractService(pages)

	info, err := os.Stat(input)
	if err != nil {
		return err
	}

	var results []service.BatchResult
	if info.IsDir() {
		worker := service.NewBatchWorker(extractSvc, *concurrency)
		results, err = worker.Run(context.Background(), input)
		if err != nil {
			return err
		}
	} else {
		res, err := extractSvc.ExtractFile(context.Background(), input)
		results = []service.BatchResult{{Path: input, Result: res, Err: err}}
	}

	failed := 0
	var parsed []service.BatchResult
	for _, r := range results {
		if r.Err != nil {
			log.Printf("extract: %s: %v", r.Path, r.Err)
			failed++
			continue
		}
		parsed = append(parsed, r)
	}
	if len(parsed) == 0 {
		return fmt.Errorf("no file parsed successfully (%d failed)", failed)
	}

	w, closeOut, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeOut()

	switch *format {
	case "json":
		err = writeJSON(w, parsed)
	case "csv":
		err = writeCSV(w, parsed)
	case "xlsx":
		err = writeXLSX(w, parsed)
	default:
		return fmt.Errorf("unknown format %q: want json, csv or xlsx", *format)
	}
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(results))
	}
	return nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func writeJSON(w io.Writer, results []service.BatchResult) error {
	type fileResult struct {
		File   string              `json:"file"`
		Result *domain.ParseResult `json:"result"`
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if len(results) == 1 {
		return enc.Encode(results[0].Result)
	}
	out := make([]fileResult, len(results))
	for i, r := range results {
		out[i] = fileResult{File: filepath.Base(r.Path), Result: r.Result}
	}
	return enc.Encode(out)
}

func writeCSV(w io.Writer, results []service.BatchResult) error {
	if _, err := w.Write(export.BOM); err != nil {
		return err
	}
	cw := export.NewCSVWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	for _, r := range results {
		for _, st := range r.Result.Statements {
			if err := cw.WriteStatement(st); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, results []service.BatchResult) error {
	// One workbook per run; multiple inputs are merged into one statement
	// list so the Resumo sheet still carries one row per professional.
	merged := &domain.ParseResult{}
	for _, r := range results {
		if merged.Header.RepasseNumero == "" {
			merged.Header = r.Result.Header
		}
		merged.Items = append(merged.Items, r.Result.Items...)
		merged.Statements = append(merged.Statements, r.Result.Statements...)
	}
	return export.WriteXLSX(w, merged)
}
