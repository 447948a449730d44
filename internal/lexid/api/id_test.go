package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/lexid/internal/lexid/entity"
	"github.com/jimyag/lexid/internal/lexid/service"
	"github.com/jimyag/lexid/pkg/apierror"
	"github.com/jimyag/lexid/pkg/entropy"
	"github.com/jimyag/lexid/pkg/idgen"
)

// MockIDService 是 IDService 的 mock 实现
type MockIDService struct {
	mock.Mock
}

func (m *MockIDService) GenerateULIDs(ctx context.Context, req *entity.GenerateULIDsRequest) (*entity.GenerateULIDsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GenerateULIDsResponse), args.Error(1)
}

func (m *MockIDService) GenerateSLIDs(ctx context.Context, req *entity.GenerateSLIDsRequest) (*entity.GenerateSLIDsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GenerateSLIDsResponse), args.Error(1)
}

func (m *MockIDService) DescribeULID(ctx context.Context, req *entity.DescribeULIDRequest) (*entity.DescribeULIDResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DescribeULIDResponse), args.Error(1)
}

func (m *MockIDService) SystemCheck(ctx context.Context) (*entity.SystemCheckResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SystemCheckResponse), args.Error(1)
}

func newTestRouter(svc IDServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	idAPI := &ID{idService: svc}
	idAPI.RegisterRoutes(router.Group("/api"))
	return router
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	reqBody, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestID_GenerateULIDs(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name         string
		req          *entity.GenerateULIDsRequest
		mockSetup    func(*MockIDService)
		expectStatus int
		expectCode   string
	}{
		{
			name: "successful generate",
			req:  &entity.GenerateULIDsRequest{Kind: "env", Count: 2},
			mockSetup: func(m *MockIDService) {
				m.On("GenerateULIDs", mock.Anything, mock.MatchedBy(func(r *entity.GenerateULIDsRequest) bool {
					return r.Kind == "env" && r.Count == 2
				})).Return(&entity.GenerateULIDsResponse{
					Kind: "env",
					IDs:  []string{"000000001W0000000000000000", "000000001W0000000000000100"},
				}, nil)
			},
			expectStatus: http.StatusOK,
		},
		{
			name:         "unknown kind",
			req:          &entity.GenerateULIDsRequest{Kind: "global"},
			mockSetup:    func(m *MockIDService) {},
			expectStatus: http.StatusBadRequest,
			expectCode:   "InvalidParameter",
		},
		{
			name:         "thread env without identity",
			req:          &entity.GenerateULIDsRequest{Kind: "thread-env"},
			mockSetup:    func(m *MockIDService) {},
			expectStatus: http.StatusBadRequest,
			expectCode:   "InvalidParameter",
		},
		{
			name:         "count too large",
			req:          &entity.GenerateULIDsRequest{Count: entity.MaxBatch + 1},
			mockSetup:    func(m *MockIDService) {},
			expectStatus: http.StatusBadRequest,
			expectCode:   "InvalidParameter",
		},
		{
			name: "lock timeout",
			req:  &entity.GenerateULIDsRequest{Kind: "env"},
			mockSetup: func(m *MockIDService) {
				m.On("GenerateULIDs", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("assign environment env: %w", apierror.Errorf(apierror.ErrLockTimeout, "lock busy")))
			},
			expectStatus: http.StatusServiceUnavailable,
			expectCode:   "LockTimeout",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockIDService)
			tc.mockSetup(mockService)

			w := postJSON(t, newTestRouter(mockService), "/api/generate-ulids", tc.req)
			assert.Equal(t, tc.expectStatus, w.Code)

			if tc.expectCode != "" {
				var resp apierror.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				require.Len(t, resp.Errors, 1)
				assert.Equal(t, tc.expectCode, resp.Errors[0].Code)
			} else {
				var resp entity.GenerateULIDsResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Len(t, resp.IDs, 2)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestID_GenerateSLIDs(t *testing.T) {
	t.Parallel()

	mockService := new(MockIDService)
	mockService.On("GenerateSLIDs", mock.Anything, &entity.GenerateSLIDsRequest{Count: 1}).
		Return(&entity.GenerateSLIDsResponse{IDs: []string{"000000001W0000"}}, nil)

	w := postJSON(t, newTestRouter(mockService), "/api/generate-slids", map[string]any{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ids":["000000001W0000"]}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestID_DescribeULID(t *testing.T) {
	t.Parallel()

	mockService := new(MockIDService)
	w := postJSON(t, newTestRouter(mockService), "/api/describe-ulid", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "DescribeULID", mock.Anything, mock.Anything)
}

func TestID_SystemCheck(t *testing.T) {
	t.Parallel()

	mockService := new(MockIDService)
	mockService.On("SystemCheck", mock.Anything).Return(&entity.SystemCheckResponse{
		ClockResolution:     "100ns",
		EpochOK:             true,
		RandomOK:            true,
		TimeSane:            true,
		Warnings:            []string{},
		PersistenceWarnings: []string{},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/system-check", nil)
	w := httptest.NewRecorder()
	newTestRouter(mockService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp entity.SystemCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.TimeSane)
	mockService.AssertExpectations(t)
}

func TestAPI_EndToEnd(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	svc := service.NewIDService(idgen.New(idgen.WithClock(entropy.FixedClock(15)), idgen.WithDataDir(t.TempDir())))
	a, err := New("127.0.0.1:0", svc)
	require.NoError(t, err)

	w := postJSON(t, a.Handler(), "/api/generate-ulids", &entity.GenerateULIDsRequest{Kind: "runtime", Count: 2})
	require.Equal(t, http.StatusOK, w.Code)
	var gen entity.GenerateULIDsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gen))
	assert.Equal(t, []string{"000000001W0000000000000000", "000000001W0000000000000001"}, gen.IDs)

	w = postJSON(t, a.Handler(), "/api/describe-ulid", &entity.DescribeULIDRequest{ID: gen.IDs[1]})
	require.Equal(t, http.StatusOK, w.Code)
	var desc entity.DescribeULIDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &desc))
	assert.Equal(t, uint64(15), desc.Timestamp)
	assert.Equal(t, "00000000000000000001", desc.RandomnessHex)

	w = postJSON(t, a.Handler(), "/api/describe-ulid", &entity.DescribeULIDRequest{ID: "0000000000O000000000000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp apierror.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	require.Len(t, errResp.Errors, 1)
	assert.Equal(t, "InvalidEncoding", errResp.Errors[0].Code)
}
