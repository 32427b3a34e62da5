package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"remitex/internal/domain"
)

// MockExtractService is a mock implementation of service.ExtractService.
type MockExtractService struct {
	mock.Mock
}

func (m *MockExtractService) Extract(ctx context.Context, r io.ReaderAt, size int64) (*domain.ParseResult, error) {
	args := m.Called(ctx, r, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseResult), args.Error(1)
}

func (m *MockExtractService) ExtractFile(ctx context.Context, path string) (*domain.ParseResult, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseResult), args.Error(1)
}
