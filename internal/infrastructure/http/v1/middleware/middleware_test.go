package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logitrack/internal/core/apperror"
	appctx "logitrack/internal/core/context"
	"logitrack/internal/core/security"
	"logitrack/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator map[string]*appctx.UserContext

func (s stubValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, errors.New("token rejected")
}

func ptr(v int64) *int64 { return &v }

func newProtected(handler gin.HandlerFunc, extra ...gin.HandlerFunc) *gin.Engine {
	v := stubValidator{
		"admin": {UserID: "a", Role: string(security.RoleAdmin)},
		"cmdr":  {UserID: "c", Role: string(security.RoleBaseCommander), BaseID: ptr(2)},
		"off":   {UserID: "o", Role: string(security.RoleLogisticsOfficer)},
	}

	r := gin.New()
	r.Use(Trace(), ErrorHandler(), Auth(v), UserContext())
	r.GET("/x", append(extra, handler)...)
	return r
}

func request(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	var scope *security.AccessScope
	r := newProtected(func(c *gin.Context) {
		scope = security.GetScope(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusUnauthorized, request(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "forged").Code)

	w := request(r, "cmdr")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, scope)
	assert.Equal(t, security.RoleBaseCommander, scope.Role)
	assert.Equal(t, int64(2), *scope.HomeBaseID)
}

func TestAuth_MalformedHeader(t *testing.T) {
	r := newProtected(func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Token admin")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeUnauthorized)
}

func TestRequireRole(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r := newProtected(ok, RequireRole(security.RoleAdmin, security.RoleBaseCommander))

	assert.Equal(t, http.StatusNoContent, request(r, "admin").Code)
	assert.Equal(t, http.StatusNoContent, request(r, "cmdr").Code)

	w := request(r, "off")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeForbidden)
}

func TestErrorHandler_HidesUnknownErrors(t *testing.T) {
	r := gin.New()
	r.Use(Trace(), ErrorHandler())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: relation does not exist"))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.Equal(t, "req-42", body["details"].(map[string]any)["request_id"])
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
}

func TestRecovery_RendersJSONInRouterOrder(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(), Trace(), Logger(logger.Nop()), ErrorHandler())
	r.GET("/x", func(*gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.Equal(t, "req-7", body["details"].(map[string]any)["request_id"])
}

func TestRecovery_KeepsWrittenResponse(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(), ErrorHandler())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusAccepted, "partial")
		panic("late")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestTrace_GeneratesIDs(t *testing.T) {
	var tc *appctx.TraceContext
	r := gin.New()
	r.Use(Trace())
	r.GET("/x", func(c *gin.Context) {
		tc = appctx.GetTrace(c.Request.Context())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.NotNil(t, tc)
	assert.NotEmpty(t, tc.RequestID)
	assert.Equal(t, tc.RequestID, w.Header().Get(HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(HeaderTraceID))
}
