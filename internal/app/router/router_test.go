package router_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_evaluator/internal/app/router"
	evaluationentity "stock_evaluator/internal/feature/evaluation/domain/entity"
	evaluationhandler "stock_evaluator/internal/feature/evaluation/transport/handler"
	"stock_evaluator/internal/feature/evaluation/transport/presenter"
	"stock_evaluator/internal/platform/http/handler"
	"stock_evaluator/internal/platform/metrics"
)

type stubEvaluation struct{}

func (stubEvaluation) Evaluate(ctx context.Context, symbol string) (*evaluationentity.EvaluationReport, error) {
	return &evaluationentity.EvaluationReport{
		Symbol:   symbol,
		Decision: evaluationentity.Decision{Signal: evaluationentity.SignalHold},
	}, nil
}

func TestNewRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := metrics.New()
	rec.RecordEvaluation("reported")

	r := router.NewRouter(router.Handlers{
		Evaluation: evaluationhandler.NewEvaluationHandler(stubEvaluation{}, presenter.DefaultTokenRate),
		Metrics:    rec.Handler(),
	})

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{"health", http.MethodGet, "/healthz", "", http.StatusOK, `"status":"ok"`},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK, "stock_evaluator_evaluations_total"},
		{"evaluation", http.MethodPost, "/v1/evaluations", `{"symbol":"AAPL"}`, http.StatusOK, `"signal":"HOLD"`},
		{"symbols not registered without handler", http.MethodGet, "/v1/symbols", "", http.StatusNotFound, ""},
		{"candles not registered without handler", http.MethodGet, "/v1/candles/AAPL", "", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestNewRouter_HealthReportsFailingCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := router.NewRouter(router.Handlers{
		Checks: []handler.Check{{
			Name:  "db",
			Probe: func(ctx context.Context) error { return errors.New("down") },
		}},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type deadlineEvaluation struct {
	hasDeadline bool
}

func (d *deadlineEvaluation) Evaluate(ctx context.Context, symbol string) (*evaluationentity.EvaluationReport, error) {
	_, d.hasDeadline = ctx.Deadline()
	return &evaluationentity.EvaluationReport{Symbol: symbol}, nil
}

func TestNewRouter_RequestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	uc := &deadlineEvaluation{}
	r := router.NewRouter(router.Handlers{
		Evaluation:     evaluationhandler.NewEvaluationHandler(uc, presenter.DefaultTokenRate),
		RequestTimeout: time.Minute,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/evaluations", strings.NewReader(`{"symbol":"AAPL"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, uc.hasDeadline)
}

func TestNewRouter_AuthSecretGuardsV1(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const secret = "router-test-secret-0123"
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "nightly-batch",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	r := router.NewRouter(router.Handlers{
		Evaluation: evaluationhandler.NewEvaluationHandler(stubEvaluation{}, presenter.DefaultTokenRate),
		AuthSecret: secret,
	})

	tests := []struct {
		name           string
		method         string
		path           string
		authHeader     string
		expectedStatus int
	}{
		{"evaluation without token", http.MethodPost, "/v1/evaluations", "", http.StatusUnauthorized},
		{"evaluation with bad token", http.MethodPost, "/v1/evaluations", "Bearer not.a.token", http.StatusUnauthorized},
		{"evaluation with token", http.MethodPost, "/v1/evaluations", "Bearer " + signed, http.StatusOK},
		{"health stays open", http.MethodGet, "/healthz", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{"symbol":"AAPL"}`))
			req.Header.Set("Content-Type", "application/json")
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}
