package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	build := model.VersionResponse{
		Version:   "1.2.3",
		BuildTime: "2026-01-01T00:00:00Z",
		GitCommit: "deadbeef",
		Strategy:  "fast_marching",
	}
	h := NewSystemHandler(build)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/version", h.Version)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","version":"1.2.3"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got model.VersionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, build, got)
}
