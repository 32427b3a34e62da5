package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"remitex/internal/analysis"
	"remitex/internal/domain"
	"remitex/internal/export"
	"remitex/internal/service"
)

// ParseHandler handles remittance PDF parsing endpoints.
type ParseHandler struct {
	extractor     service.ExtractService
	maxUploadSize int64
}

// NewParseHandler creates a new ParseHandler. maxUploadSizeMB bounds the
// accepted upload size.
func NewParseHandler(extractor service.ExtractService, maxUploadSizeMB int64) *ParseHandler {
	return &ParseHandler{
		extractor:     extractor,
		maxUploadSize: maxUploadSizeMB * 1024 * 1024,
	}
}

// Parse handles POST /api/v1/parse
// Accepts a multipart "file" field with a remittance PDF and returns the
// parsed header, items and per-professional statements.
func (h *ParseHandler) Parse(c *gin.Context) {
	result, _, ok := h.parseUpload(c)
	if !ok {
		return
	}
	RespondOK(c, result)
}

// Summary handles POST /api/v1/parse/summary
// Parses the upload and returns one reconciliation summary per statement.
func (h *ParseHandler) Summary(c *gin.Context) {
	result, _, ok := h.parseUpload(c)
	if !ok {
		return
	}

	type statementSummary struct {
		Profissional  string           `json:"profissional"`
		Especialidade string           `json:"especialidade"`
		Itens         int              `json:"itens"`
		Resumo        analysis.Summary `json:"resumo"`
	}

	summaries := make([]statementSummary, 0, len(result.Statements))
	for _, st := range result.Statements {
		summaries = append(summaries, statementSummary{
			Profissional:  st.Header.ProfissionalNome,
			Especialidade: st.Header.Especialidade,
			Itens:         len(st.Items),
			Resumo:        analysis.Summarize(st.Items),
		})
	}
	RespondOK(c, summaries)
}

// Export handles POST /api/v1/parse/export
// Parses the upload and streams the result as a CSV or XLSX attachment,
// selected by the "format" query parameter (default csv).
func (h *ParseHandler) Export(c *gin.Context) {
	result, filename, ok := h.parseUpload(c)
	if !ok {
		return
	}

	label := "repasse_" + result.Header.RepasseNumero
	if result.Header.RepasseNumero == "" {
		label = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		var buf bytes.Buffer
		buf.Write(export.BOM)
		w := export.NewCSVWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			HandleError(c, err)
			return
		}
		for _, st := range result.Statements {
			if err := w.WriteStatement(st); err != nil {
				HandleError(c, err)
				return
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+export.BuildFilename(label, "csv")+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, result); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+export.BuildFilename(label, "xlsx")+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
	}
}

// parseUpload reads the multipart "file" field, validates it and runs the
// extractor. On failure the error response is already written and ok is
// false.
func (h *ParseHandler) parseUpload(c *gin.Context) (result *domain.ParseResult, filename string, ok bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	if err := h.validateUpload(header); err != nil {
		HandleError(c, err)
		return nil, "", false
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		HandleError(c, err)
		return nil, "", false
	}
	if int64(len(data)) > h.maxUploadSize {
		HandleError(c, domain.ErrFileTooLarge)
		return nil, "", false
	}

	result, err = h.extractor.Extract(c.Request.Context(), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		HandleError(c, err)
		return nil, "", false
	}
	return result, header.Filename, true
}

func (h *ParseHandler) validateUpload(header *multipart.FileHeader) error {
	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return domain.ErrUnsupportedFileType
	}
	if header.Size > h.maxUploadSize {
		return domain.ErrFileTooLarge
	}
	return nil
}
