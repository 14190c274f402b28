package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Joker-vD/onepass-lambda-compiler/toolchain"
)

func newTestServer() *Server {
	return New(toolchain.DefaultConfig(), zap.NewNop(), 2*time.Second)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleTranslateSuccess(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.Handler(), "/translate", map[string]string{"term": "λx. x"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["c_source"], "#include")
	assert.Contains(t, resp["c_source"], "Value")
}

func TestHandleTranslateSyntaxError(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.Handler(), "/translate", map[string]string{"term": "λ1. x"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleTranslateUnboundVariable(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.Handler(), "/translate", map[string]string{"term": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleTranslateMissingField(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.Handler(), "/translate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
