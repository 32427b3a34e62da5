package service

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"remitex/internal/domain"
)

// BatchResult pairs one input file with its parse outcome.
type BatchResult struct {
	Path   string
	Result *domain.ParseResult
	Err    error
}

// BatchWorker parses every PDF in a directory with bounded concurrency.
type BatchWorker struct {
	extractor   ExtractService
	concurrency int
}

// NewBatchWorker creates a BatchWorker. Concurrency values below 1 are
// clamped to 1.
func NewBatchWorker(extractor ExtractService, concurrency int) *BatchWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchWorker{extractor: extractor, concurrency: concurrency}
}

// Run parses all *.pdf files directly under dir and returns one result per
// file, ordered by path. Per-file parse failures are recorded in the result,
// not returned; only listing the directory can fail the batch.
func (w *BatchWorker) Run(ctx context.Context, dir string) ([]BatchResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	results := make([]BatchResult, len(paths))
	sem := make(chan struct{}, w.concurrency)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				results[i] = BatchResult{Path: path, Err: err}
				return
			}

			res, err := w.extractor.ExtractFile(ctx, path)
			if err != nil {
				log.Printf("service.BatchWorker: %s: %v", path, err)
			}
			results[i] = BatchResult{Path: path, Result: res, Err: err}
		}(i, path)
	}
	wg.Wait()

	return results, nil
}
