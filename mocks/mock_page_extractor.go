package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"remitex/internal/port"
)

// MockPageExtractor is a mock implementation of port.PageExtractor.
type MockPageExtractor struct {
	mock.Mock
}

func (m *MockPageExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (*port.Document, error) {
	args := m.Called(ctx, r, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Document), args.Error(1)
}
