package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logitrack/internal/core/apperror"
	"logitrack/internal/core/tx"
	"logitrack/internal/infrastructure/http/v1/middleware"
	"logitrack/pkg/logger"
)

func TestNewRouter_PanicBecomesJSON500(t *testing.T) {
	router := NewRouter(RouterConfig{
		ServiceName: "logitrack-test",
		Logger:      logger.Nop(),
		TxManager:   tx.Nop{},
	})
	router.GET("/boom", func(*gin.Context) { panic("nil map write") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-9")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "nil map")

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.Equal(t, "req-9", body["details"].(map[string]any)["request_id"])
}
