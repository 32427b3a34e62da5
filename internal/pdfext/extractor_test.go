package pdfext

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remitex/internal/domain"
)

func ch(s string, x, y, w float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: 10}
}

func TestNew_ZeroFieldsFallBackToDefaults(t *testing.T) {
	e := New(Config{})
	assert.Equal(t, DefaultConfig(), e.cfg)

	e = New(Config{RowTolerance: 5})
	assert.Equal(t, 5.0, e.cfg.RowTolerance)
	assert.Equal(t, 0.3, e.cfg.WordGapFactor)
}

func TestBuildWords_MergesAdjacentRuns(t *testing.T) {
	e := New(Config{})
	// "CONSULTA" as two runs 1pt apart, then a word after a wide gap.
	// Page height 792; Y is distance from the bottom.
	chars := []pdf.Text{
		ch("CONS", 40, 700, 20),
		ch("ULTA", 61, 700, 20),
		ch("150,00", 200, 700, 30),
	}
	words := e.buildWords(chars, 792)
	require.Len(t, words, 2)
	assert.Equal(t, "CONSULTA", words[0].text)
	assert.Equal(t, 40.0, words[0].x0)
	assert.Equal(t, "150,00", words[1].text)
	assert.Equal(t, 92.0, words[0].top)
}

func TestBuildWords_SpaceRunEndsWord(t *testing.T) {
	e := New(Config{})
	chars := []pdf.Text{
		ch("MARIA", 40, 700, 25),
		ch(" ", 65, 700, 3),
		ch("SILVA", 68, 700, 25),
	}
	words := e.buildWords(chars, 792)
	require.Len(t, words, 2)
	assert.Equal(t, "MARIA", words[0].text)
	assert.Equal(t, "SILVA", words[1].text)
}

func TestBuildWords_Empty(t *testing.T) {
	assert.Nil(t, New(Config{}).buildWords(nil, 792))
}

func TestGroupRows(t *testing.T) {
	e := New(Config{})
	words := []word{
		{text: "b", x0: 100, top: 50},
		{text: "a", x0: 40, top: 51},
		{text: "c", x0: 40, top: 80},
	}
	rows := e.groupRows(words)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0][0].text)
	assert.Equal(t, "b", rows[0][1].text)
	assert.Equal(t, "c", rows[1][0].text)
}

func TestRenderText_WideGapsBecomeColumnBreaks(t *testing.T) {
	e := New(Config{})
	rows := [][]word{
		{
			{text: "MARIA", x0: 40, x1: 70, top: 50},
			{text: "SILVA", x0: 72, x1: 100, top: 50},
			{text: "150,00", x0: 200, x1: 230, top: 50},
		},
		{
			{text: "RESULTADO", x0: 40, x1: 100, top: 70},
		},
	}
	assert.Equal(t, "MARIA SILVA  150,00\nRESULTADO", e.renderText(rows))
}

func TestBuildGrid_AlignedColumns(t *testing.T) {
	e := New(Config{})
	mkRow := func(a, b, c string, top float64) []word {
		return []word{
			{text: a, x0: 40, x1: 90, top: top},
			{text: b, x0: 200, x1: 250, top: top},
			{text: c, x0: 400, x1: 450, top: top},
		}
	}
	rows := [][]word{
		mkRow("Data", "Paciente", "Produzido", 50),
		mkRow("01/08/2025", "MARIA", "150,00", 70),
		mkRow("02/08/2025", "JOAO", "80,00", 90),
	}

	grid := e.buildGrid(rows)
	require.Len(t, grid, 3)
	require.Len(t, grid[0], 3)
	assert.Equal(t, []string{"Data", "Paciente", "Produzido"}, grid[0])
	assert.Equal(t, []string{"01/08/2025", "MARIA", "150,00"}, grid[1])
}

func TestBuildGrid_NoAlignmentYieldsSingleCellRows(t *testing.T) {
	e := New(Config{})
	// Every word starts at a different x in every row: no edge gets enough
	// support, so rows collapse into one cell each.
	rows := [][]word{
		{{text: "a", x0: 40, top: 50}, {text: "b", x0: 120, top: 50}},
		{{text: "c", x0: 75, top: 70}, {text: "d", x0: 180, top: 70}},
		{{text: "e", x0: 95, top: 90}, {text: "f", x0: 220, top: 90}},
	}

	grid := e.buildGrid(rows)
	require.Len(t, grid, 3)
	assert.Equal(t, []string{"a b"}, grid[0])
}

func TestColumnEdges_SupportThreshold(t *testing.T) {
	e := New(Config{})
	rows := [][]word{
		{{x0: 40}, {x0: 200}},
		{{x0: 40.5}, {x0: 200.5}},
		{{x0: 41}, {x0: 300}},
	}
	edges := e.columnEdges(rows)
	require.Len(t, edges, 2)
	assert.InDelta(t, 40, edges[0], 1.5)
	assert.InDelta(t, 200, edges[1], 1.5)
}

func TestExtract_GarbageInput(t *testing.T) {
	e := New(Config{})
	data := []byte("this is definitely not a pdf file")
	_, err := e.Extract(context.Background(), bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnreadableDocument))
}
