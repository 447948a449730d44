package ginx_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/lexid/pkg/apierror"
	"github.com/jimyag/lexid/pkg/ginx"
)

// CountArgs 用于测试 IsValid 方法
type CountArgs struct {
	Count int `json:"count" form:"count"`
}

func (args *CountArgs) IsValid() error {
	if args.Count <= 0 {
		return apierror.Errorf(apierror.ErrInvalidParameter, "count must be positive, got %d", args.Count)
	}
	return nil
}

type countResponse struct {
	Count int `json:"count"`
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/count", ginx.Adapt5(func(c *gin.Context, args *CountArgs) (*countResponse, error) {
		return &countResponse{Count: args.Count}, nil
	}))
	router.GET("/count", ginx.Adapt5(func(c *gin.Context, args *CountArgs) (*countResponse, error) {
		return &countResponse{Count: args.Count}, nil
	}))
	return router
}

func decodeError(t *testing.T, body string) apierror.Error {
	t.Helper()
	var resp apierror.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Errors, 1)
	return resp.Errors[0]
}

func TestAdapt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		testFunc func(*testing.T)
	}{
		{
			name: "Adapt3_NoArgsReturnError",
			testFunc: func(t *testing.T) {
				t.Parallel()
				gin.SetMode(gin.TestMode)
				router := gin.New()
				router.GET("/test", ginx.Adapt3(func(c *gin.Context) (*countResponse, error) {
					return &countResponse{Count: 1}, nil
				}))

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				router.ServeHTTP(w, req)

				assert.Equal(t, http.StatusOK, w.Code)
				assert.JSONEq(t, `{"count":1}`, w.Body.String())
			},
		},
		{
			name: "Adapt3_PlainError",
			testFunc: func(t *testing.T) {
				t.Parallel()
				gin.SetMode(gin.TestMode)
				router := gin.New()
				router.GET("/test", ginx.Adapt3(func(c *gin.Context) (*countResponse, error) {
					return nil, assert.AnError
				}))

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				router.ServeHTTP(w, req)

				assert.Equal(t, http.StatusInternalServerError, w.Code)
				assert.Equal(t, "InternalError", decodeError(t, w.Body.String()).Code)
			},
		},
		{
			name: "Adapt3_WrappedAPIError",
			testFunc: func(t *testing.T) {
				t.Parallel()
				gin.SetMode(gin.TestMode)
				router := gin.New()
				router.GET("/test", ginx.Adapt3(func(c *gin.Context) (*countResponse, error) {
					return nil, fmt.Errorf("assign env: %w", apierror.Errorf(apierror.ErrLockTimeout, "lock busy"))
				}))

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				router.ServeHTTP(w, req)

				assert.Equal(t, http.StatusServiceUnavailable, w.Code)
				e := decodeError(t, w.Body.String())
				assert.Equal(t, "LockTimeout", e.Code)
				assert.Equal(t, "lock busy", e.Message)
			},
		},
		{
			name: "Adapt3_NilResponse",
			testFunc: func(t *testing.T) {
				t.Parallel()
				gin.SetMode(gin.TestMode)
				router := gin.New()
				router.GET("/test", ginx.Adapt3(func(c *gin.Context) (any, error) {
					return nil, nil
				}))

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				router.ServeHTTP(w, req)

				assert.Equal(t, http.StatusNoContent, w.Code)
			},
		},
		{
			name: "Adapt5_JSONBody",
			testFunc: func(t *testing.T) {
				t.Parallel()
				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/count", strings.NewReader(`{"count":3}`))
				req.Header.Set("Content-Type", "application/json")
				newRouter().ServeHTTP(w, req)

				assert.Equal(t, http.StatusOK, w.Code)
				assert.JSONEq(t, `{"count":3}`, w.Body.String())
			},
		},
		{
			name: "Adapt5_Query",
			testFunc: func(t *testing.T) {
				t.Parallel()
				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/count?count=7", nil)
				newRouter().ServeHTTP(w, req)

				assert.Equal(t, http.StatusOK, w.Code)
				assert.JSONEq(t, `{"count":7}`, w.Body.String())
			},
		},
		{
			name: "Adapt5_InvalidJSON",
			testFunc: func(t *testing.T) {
				t.Parallel()
				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/count", strings.NewReader(`{"count":`))
				req.Header.Set("Content-Type", "application/json")
				newRouter().ServeHTTP(w, req)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, "InvalidParameter", decodeError(t, w.Body.String()).Code)
			},
		},
		{
			name: "Adapt5_IsValid",
			testFunc: func(t *testing.T) {
				t.Parallel()
				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/count", strings.NewReader(`{"count":0}`))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("X-Request-Id", "req-1")
				newRouter().ServeHTTP(w, req)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				var resp apierror.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "req-1", resp.RequestID)
				require.Len(t, resp.Errors, 1)
				assert.Contains(t, resp.Errors[0].Message, "count must be positive")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}
