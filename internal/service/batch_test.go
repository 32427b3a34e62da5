package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"remitex/internal/domain"
	"remitex/mocks"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
}

func TestBatchWorker_Run(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.pdf", "a.pdf", "notes.txt", "upper.PDF")

	svc := new(mocks.MockExtractService)
	svc.On("ExtractFile", mock.Anything, filepath.Join(dir, "a.pdf")).
		Return(&domain.ParseResult{}, nil)
	svc.On("ExtractFile", mock.Anything, filepath.Join(dir, "b.pdf")).
		Return(nil, domain.ErrUnreadableDocument)
	svc.On("ExtractFile", mock.Anything, filepath.Join(dir, "upper.PDF")).
		Return(&domain.ParseResult{}, nil)

	worker := NewBatchWorker(svc, 2)
	results, err := worker.Run(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Results come back ordered by path regardless of completion order.
	assert.Equal(t, filepath.Join(dir, "a.pdf"), results[0].Path)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, filepath.Join(dir, "b.pdf"), results[1].Path)
	assert.True(t, errors.Is(results[1].Err, domain.ErrUnreadableDocument))
	assert.Equal(t, filepath.Join(dir, "upper.PDF"), results[2].Path)

	svc.AssertExpectations(t)
}

func TestBatchWorker_EmptyDir(t *testing.T) {
	worker := NewBatchWorker(new(mocks.MockExtractService), 2)
	results, err := worker.Run(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBatchWorker_MissingDir(t *testing.T) {
	worker := NewBatchWorker(new(mocks.MockExtractService), 2)
	_, err := worker.Run(context.Background(), "/nonexistent-dir")
	assert.Error(t, err)
}

func TestBatchWorker_ClampsConcurrency(t *testing.T) {
	worker := NewBatchWorker(new(mocks.MockExtractService), 0)
	assert.Equal(t, 1, worker.concurrency)
}
