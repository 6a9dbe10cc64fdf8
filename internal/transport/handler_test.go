package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"go-ecoscan/internal/config"
	apperrors "go-ecoscan/internal/errors"
	"go-ecoscan/pkg/models"
)

type stubAnalysisService struct {
	response *models.AnalysisResponse
	err      error
	latest   models.ComparisonResult
	hasLast  bool
}

func (s *stubAnalysisService) AnalyzeProduct(ctx context.Context, image string) (*models.AnalysisResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *stubAnalysisService) LatestComparison() (models.ComparisonResult, bool) {
	return s.latest, s.hasLast
}

func (s *stubAnalysisService) ValidateImagePayload(image string) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		RequestTimeout:     5 * time.Second,
		MaxRequestBodySize: 1024 * 1024,
	}
}

func postAnalyze(t *testing.T, handler http.Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestAnalyzeEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	avg := 72
	svc := &stubAnalysisService{
		response: &models.AnalysisResponse{
			Ingredients:        []string{"water", "sugar"},
			AverageScore:       &avg,
			MatchedIngredients: 2,
			TotalIngredients:   2,
		},
	}
	handler := NewHandler(svc, testConfig())

	image := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("img"))
	w := postAnalyze(t, handler, AnalysisRequest{Image: image})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.AnalysisResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AverageScore == nil || *resp.AverageScore != 72 {
		t.Errorf("expected averageScore 72, got %v", resp.AverageScore)
	}
	if len(resp.Ingredients) != 2 {
		t.Errorf("expected 2 ingredients, got %v", resp.Ingredients)
	}
}

func TestAnalyzeEndpointMissingImage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&stubAnalysisService{}, testConfig())

	w := postAnalyze(t, handler, map[string]string{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected a non-empty error message")
	}
}

func TestAnalyzeEndpointServiceErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation error",
			err:        apperrors.NewValidationError("bad payload", nil),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "network error",
			err:        apperrors.NewNetworkError("provider unreachable", nil),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "configuration error",
			err:        apperrors.NewConfigurationError("missing API key", nil),
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "timeout error",
			err:        apperrors.NewTimeoutError("analysis timed out", nil),
			wantStatus: http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&stubAnalysisService{err: tt.err}, testConfig())
			w := postAnalyze(t, handler, AnalysisRequest{Image: "data:image/jpeg;base64,aW1n"})
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestLatestEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &stubAnalysisService{
		latest: models.ComparisonResult{
			Original: models.Product{Name: "Standard Water Bottle"},
			Alternatives: []models.Product{
				{Name: "Eco-friendly Water Bottle"},
			},
		},
		hasLast: true,
	}
	handler := NewHandler(svc, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/latest", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var result models.ComparisonResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Original.Name != "Standard Water Bottle" {
		t.Errorf("unexpected original: %q", result.Original.Name)
	}
}

func TestLatestEndpointEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&stubAnalysisService{}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/latest", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&stubAnalysisService{}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&stubAnalysisService{}, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "authorization, content-type")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight response, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}
