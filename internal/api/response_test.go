package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pemkomedan/rag-layanan/internal/domain"
)

func TestJSON_WritesStatusAndBody(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "ValidationError", "Field 'question' wajib diisi")

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "ValidationError", resp.Error.Type)
	assert.Equal(t, "Field 'question' wajib diisi", resp.Error.Message)
}

func TestDomainErrorToHTTP(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", &domain.DomainError{Code: domain.ErrCodeValidation, Message: "bad input"}, http.StatusBadRequest},
		{"index unavailable", &domain.DomainError{Code: domain.ErrCodeIndexUnavailable, Message: "qdrant down"}, http.StatusInternalServerError},
		{"ingestion", &domain.DomainError{Code: domain.ErrCodeIngestionFailure, Message: "ocr failed"}, http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DomainErrorToHTTP(tc.err))
		})
	}
}

func TestHandleError_DomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, &domain.DomainError{
		Code:    domain.ErrCodeIndexUnavailable,
		Message: "index unreachable",
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "IndexUnavailable", resp.Error.Type)
	assert.Equal(t, "index unreachable", resp.Error.Message)
}

func TestHandleError_UnknownError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ServerError", resp.Error.Type)
	assert.Equal(t, "Kesalahan internal", resp.Error.Message)
	assert.Equal(t, "boom", resp.Error.Detail)
}
