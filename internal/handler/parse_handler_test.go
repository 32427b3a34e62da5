package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"remitex/internal/domain"
	"remitex/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(svc *mocks.MockExtractService) *gin.Engine {
	h := NewParseHandler(svc, 50)
	r := gin.New()
	r.POST("/parse", h.Parse)
	r.POST("/parse/summary", h.Summary)
	r.POST("/parse/export", h.Export)
	return r
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func sampleResult() *domain.ParseResult {
	vp := decimal.RequireFromString("150")
	imp := decimal.RequireFromString("15")
	vl := decimal.RequireFromString("135")
	item := domain.ParsedItem{
		Paciente:       "MARIA SILVA",
		Convenio:       "UNIMED",
		Codigo:         "31010012",
		Procedimento:   "CONSULTA",
		Data:           "01/08/2025",
		ValorProduzido: &vp,
		Imposto:        &imp,
		ValorLiquido:   &vl,
		Page:           1,
	}
	header := domain.ParsedHeader{RepasseNumero: "1234", ProfissionalNome: "CARLOS PEREIRA"}
	return &domain.ParseResult{
		Header:     header,
		Items:      []domain.ParsedItem{item},
		Statements: []domain.Statement{{Header: header, Items: []domain.ParsedItem{item}}},
	}
}

func TestParseHandler_Parse(t *testing.T) {
	svc := new(mocks.MockExtractService)
	svc.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(sampleResult(), nil)

	body, contentType := multipartBody(t, "repasse.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    domain.ParseResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "1234", resp.Data.Header.RepasseNumero)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "MARIA SILVA", resp.Data.Items[0].Paciente)
	svc.AssertExpectations(t)
}

func TestParseHandler_MissingFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/parse", nil)
	rec := httptest.NewRecorder()
	newTestRouter(new(mocks.MockExtractService)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_FILE")
}

func TestParseHandler_RejectsNonPDF(t *testing.T) {
	body, contentType := multipartBody(t, "notes.txt", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestRouter(new(mocks.MockExtractService)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNSUPPORTED_FILE_TYPE")
}

func TestParseHandler_UnreadableDocument(t *testing.T) {
	svc := new(mocks.MockExtractService)
	svc.On("Extract", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrUnreadableDocument)

	body, contentType := multipartBody(t, "broken.pdf", []byte("not a pdf"))
	req := httptest.NewRequest(http.MethodPost, "/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNREADABLE_DOCUMENT")
}

func TestParseHandler_Summary(t *testing.T) {
	svc := new(mocks.MockExtractService)
	svc.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(sampleResult(), nil)

	body, contentType := multipartBody(t, "repasse.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/parse/summary", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CARLOS PEREIRA")
	assert.Contains(t, rec.Body.String(), "total_bruto")
}

func TestParseHandler_ExportCSV(t *testing.T) {
	svc := new(mocks.MockExtractService)
	svc.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(sampleResult(), nil)

	body, contentType := multipartBody(t, "repasse.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/parse/export?format=csv", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "repasse_1234")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, rec.Body.String(), "MARIA SILVA")
}

func TestParseHandler_ExportUnknownFormat(t *testing.T) {
	svc := new(mocks.MockExtractService)
	svc.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(sampleResult(), nil)

	body, contentType := multipartBody(t, "repasse.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/parse/export?format=yaml", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_FORMAT")
}
