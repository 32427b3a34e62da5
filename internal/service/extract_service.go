package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"remitex/internal/domain"
	"remitex/internal/extract"
	"remitex/internal/port"
)

// ExtractService parses remittance PDFs into structured statements.
type ExtractService interface {
	// Extract parses a fully buffered PDF.
	Extract(ctx context.Context, r io.ReaderAt, size int64) (*domain.ParseResult, error)
	// ExtractFile buffers and parses a PDF from disk. I/O failures opening
	// the file are fatal and propagated.
	ExtractFile(ctx context.Context, path string) (*domain.ParseResult, error)
}

type extractService struct {
	pages port.PageExtractor
}

// NewExtractService creates an ExtractService backed by the given page
// extractor.
func NewExtractService(pages port.PageExtractor) ExtractService {
	return &extractService{pages: pages}
}

func (s *extractService) Extract(ctx context.Context, r io.ReaderAt, size int64) (*domain.ParseResult, error) {
	doc, err := s.pages.Extract(ctx, r, size)
	if err != nil {
		return nil, err
	}

	header, items := extract.Parse(doc)
	professionals := extract.DetectProfessionals(doc)
	statements := splitByProfessional(header, items, professionals)

	log.Printf("service.ExtractService: parsed %d item(s) across %d page(s), %d statement(s)",
		len(items), len(doc.Pages), len(statements))

	return &domain.ParseResult{
		Header:     header,
		Items:      items,
		Statements: statements,
	}, nil
}

func (s *extractService) ExtractFile(ctx context.Context, path string) (*domain.ParseResult, error) {
	// Pages are visited multiple times across strategies and the rescue
	// pass, so the file is buffered fully before parsing.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.Extract(ctx, bytes.NewReader(data), int64(len(data)))
}

// splitByProfessional groups items into one statement per detected
// professional, keyed by the per-page professional mapping. Items on pages
// without a mapping stick with the previously seen professional, falling back
// to the document header. Documents where no professional was detected yield
// a single statement with everything.
func splitByProfessional(header domain.ParsedHeader, items []domain.ParsedItem, byPage map[int]domain.Professional) []domain.Statement {
	type key struct{ nome, esp string }

	index := map[key]int{}
	var statements []domain.Statement
	var lastKey *key

	for _, it := range items {
		k := key{nome: header.ProfissionalNome, esp: header.Especialidade}
		if prof, ok := byPage[it.Page]; ok && it.Page > 0 {
			k = key{nome: prof.Nome, esp: prof.Especialidade}
			if k.nome == "" {
				k.nome = header.ProfissionalNome
			}
			if k.esp == "" {
				k.esp = header.Especialidade
			}
			lastKey = &k
		} else if lastKey != nil {
			k = *lastKey
		}

		idx, ok := index[k]
		if !ok {
			hdr := header
			hdr.ProfissionalNome = k.nome
			hdr.Especialidade = k.esp
			statements = append(statements, domain.Statement{Header: hdr})
			idx = len(statements) - 1
			index[k] = idx
		}
		statements[idx].Items = append(statements[idx].Items, it)
	}

	if len(statements) == 0 {
		statements = append(statements, domain.Statement{Header: header, Items: items})
	}
	return statements
}
