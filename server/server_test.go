package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aouyang1/go-pricecast"
	"github.com/aouyang1/go-pricecast/forecast"
	"github.com/aouyang1/go-pricecast/rawtable"
	"github.com/aouyang1/go-pricecast/source"
	"github.com/aouyang1/go-pricecast/timedataset"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flatFitter struct{}

type flatPredictor struct {
	level float64
}

func (flatFitter) Fit(t []time.Time, y []float64) (forecast.Predictor, error) {
	return flatPredictor{level: y[len(y)-1]}, nil
}

func (f flatPredictor) Predict(t []time.Time) (*forecast.Results, error) {
	res := &forecast.Results{
		T:        t,
		Forecast: make([]float64, len(t)),
		Upper:    make([]float64, len(t)),
		Lower:    make([]float64, len(t)),
	}
	for i := range t {
		res.Forecast[i] = f.level
		res.Upper[i] = f.level
		res.Lower[i] = f.level
	}
	return res, nil
}

// switchRunner runs the wrapped pipeline until failing is set
type switchRunner struct {
	mu      sync.Mutex
	p       *pricecast.Pipeline
	failing bool
	runs    int
}

func (s *switchRunner) Run(ctx context.Context) (*pricecast.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	if s.failing {
		return nil, source.ErrFetch
	}
	return s.p.Run(ctx)
}

func (s *switchRunner) fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = true
}

func setupRunner(t *testing.T) *switchRunner {
	t.Helper()

	days := timedataset.GenerateTradingDays(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), 200)
	table := rawtable.Table{{"Data", "Preço"}}
	for i := len(days) - 1; i >= 0; i-- {
		table = append(table, []string{days[i].Format(rawtable.DateLayout), strconv.Itoa(6000 + i)})
	}
	opt := pricecast.NewDefaultOptions()
	opt.TableIndex = 0
	opt.WindowLength = 3
	opt.HorizonDays = 5

	p, err := pricecast.New(source.Static{table}, flatFitter{}, opt)
	require.NoError(t, err)
	return &switchRunner{p: p}
}

func get(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrNoRunner)

	_, err = New(setupRunner(t), &Options{RefreshCron: "every minute"})
	assert.ErrorIs(t, err, ErrInvalidCron)

	s, err := New(setupRunner(t), &Options{RefreshCron: "0 6 * * *"})
	require.NoError(t, err)
	s.Start()
	assert.NoError(t, s.Stop(context.Background()))
}

func TestNotReady(t *testing.T) {
	s, err := New(setupRunner(t), nil)
	require.NoError(t, err)
	h := s.Handler()

	testData := map[string]struct {
		path string
		code int
	}{
		"dashboard": {path: "/", code: http.StatusServiceUnavailable},
		"result":    {path: "/api/result", code: http.StatusServiceUnavailable},
		"history":   {path: "/api/history", code: http.StatusServiceUnavailable},
		"forecast":  {path: "/api/forecast", code: http.StatusServiceUnavailable},
		"chart":     {path: "/api/chart", code: http.StatusServiceUnavailable},
		"status":    {path: "/api/status", code: http.StatusOK},
		"health":    {path: "/healthz", code: http.StatusOK},
		"unknown":   {path: "/api/unknown", code: http.StatusNotFound},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			rec := get(t, h, http.MethodGet, td.path)
			assert.Equal(t, td.code, rec.Code)
		})
	}
}

func TestServeResult(t *testing.T) {
	runner := setupRunner(t)
	s, err := New(runner, nil)
	require.NoError(t, err)
	require.NoError(t, s.Refresh(context.Background()))
	h := s.Handler()

	rec := get(t, h, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<th>Data</th><th>Preço</th>")

	rec = get(t, h, http.MethodGet, "/api/history")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var history struct {
		Rows []json.RawMessage `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history.Rows, 3)

	rec = get(t, h, http.MethodGet, "/api/forecast")
	require.Equal(t, http.StatusOK, rec.Code)
	var fc struct {
		Rows []json.RawMessage `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Len(t, fc.Rows, 3)

	rec = get(t, h, http.MethodGet, "/api/chart")
	require.Equal(t, http.StatusOK, rec.Code)
	var chart pricecast.Chart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chart))
	assert.Len(t, chart.Markers, 4)

	rec = get(t, h, http.MethodGet, "/api/result")
	assert.Equal(t, http.StatusOK, rec.Code)

	// refresh only accepts POST
	rec = get(t, h, http.MethodGet, "/api/refresh")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRefreshKeepsPreviousResult(t *testing.T) {
	runner := setupRunner(t)
	s, err := New(runner, nil)
	require.NoError(t, err)
	h := s.Handler()

	rec := get(t, h, http.MethodPost, "/api/refresh")
	require.Equal(t, http.StatusOK, rec.Code)
	first := s.Result()
	require.NotNil(t, first)

	runner.fail()
	rec = get(t, h, http.MethodPost, "/api/refresh")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.True(t, errors.Is(s.Refresh(context.Background()), source.ErrFetch))

	// the previous result is still served
	assert.Same(t, first, s.Result())
	rec = get(t, h, http.MethodGet, "/api/history")
	assert.Equal(t, http.StatusOK, rec.Code)

	var status Status
	rec = get(t, h, http.MethodGet, "/api/status")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Ready)
	assert.Equal(t, 1, status.Refreshes)
	assert.Equal(t, 2, status.Failures)
	assert.NotEmpty(t, status.LastError)
	assert.True(t, first.GeneratedAt.Equal(status.GeneratedAt))
	assert.Equal(t, 3, runner.runs)
}
