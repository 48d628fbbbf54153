package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/farmsight/engine/internal/catalog"
	"github.com/farmsight/engine/internal/config"
	"github.com/farmsight/engine/internal/engine"
	"github.com/farmsight/engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []types.ProtocolActivity {
	return []types.ProtocolActivity{
		{
			Name:              "uniswap",
			Chain:             "ethereum",
			Category:          types.CategoryDex,
			UserCount:         1_000_000,
			TvlUSD:            1e9,
			AirdropLikelihood: 85,
			Requirements:      types.Requirements{MinTransactions: 5, MinVolumeUSD: 1000, MinTimeActiveDays: 30},
		},
		{
			Name:              "camelot",
			Chain:             "arbitrum",
			Category:          types.CategoryDex,
			UserCount:         50_000,
			TvlUSD:            2e8,
			AirdropLikelihood: 70,
			Requirements:      types.Requirements{MinTransactions: 3, MinVolumeUSD: 500, MinTimeActiveDays: 14},
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	params := config.DefaultEngineParameters

	catalogService, err := catalog.NewService(func() ([]types.ProtocolActivity, error) {
		return testCatalog(), nil
	})
	require.NoError(t, err)
	require.NoError(t, catalogService.Refresh())

	estimator, err := engine.NewRewardEstimator(params)
	require.NoError(t, err)
	t.Cleanup(estimator.Close)

	return NewServer("8080", catalogService, params, estimator)
}

func doRequest(t *testing.T, server *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, req)
	return recorder
}

func TestHealthDegradedWithoutDatabase(t *testing.T) {
	server := newTestServer(t)

	recorder := doRequest(t, server, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "DEGRADED", body["status"])

	engineStatus, ok := body["engine_status"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, engineStatus["database_healthy"])
	assert.Equal(t, float64(2), engineStatus["catalog_size"])
}

func TestGetProtocols(t *testing.T) {
	server := newTestServer(t)

	recorder := doRequest(t, server, http.MethodGet, "/api/protocols", nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, float64(1), body["version"])
}

func TestGetEstimates(t *testing.T) {
	server := newTestServer(t)

	recorder := doRequest(t, server, http.MethodGet, "/api/estimates", nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Estimates []struct {
			Protocol        string  `json:"protocol"`
			PotentialReward float64 `json:"potential_reward"`
		} `json:"estimates"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)

	params := config.DefaultEngineParameters
	for i, protocol := range testCatalog() {
		assert.Equal(t, protocol.Name, body.Estimates[i].Protocol)
		assert.InDelta(t, engine.EstimatePotentialReward(protocol, params), body.Estimates[i].PotentialReward, 1e-9)
	}
}

func TestGetPredictions(t *testing.T) {
	server := newTestServer(t)

	recorder := doRequest(t, server, http.MethodGet, "/api/predictions", nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["count"])
}

func TestGetStrategiesValidation(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		target string
		code   int
	}{
		{"missing parameters", "/api/strategies", http.StatusBadRequest},
		{"non-numeric budget", "/api/strategies?budget=abc&hours=10", http.StatusBadRequest},
		{"negative hours", "/api/strategies?budget=100&hours=-1", http.StatusBadRequest},
		{"valid", "/api/strategies?budget=1000&hours=10", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doRequest(t, server, http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.code, recorder.Code)
		})
	}
}

func TestOptimizeSequenceEndpoint(t *testing.T) {
	server := newTestServer(t)

	payload, err := json.Marshal(map[string]interface{}{
		"actions": []types.FarmingAction{
			{Protocol: "uniswap", Action: "Make a swap", EstimatedCost: 15, PotentialReward: 160, ROI: 1066, TimeRequiredMinutes: 5},
			{Protocol: "camelot", Action: "Make a swap", EstimatedCost: 2, PotentialReward: 40, ROI: 2000, TimeRequiredMinutes: 5},
		},
		"max_budget":     20,
		"max_time_hours": 1,
	})
	require.NoError(t, err)

	recorder := doRequest(t, server, http.MethodPost, "/api/sequence", payload)

	require.Equal(t, http.StatusOK, recorder.Code)

	var sequence types.ActionSequence
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &sequence))
	// The higher-ROI camelot action is admitted first.
	require.Len(t, sequence.Sequence, 2)
	assert.Equal(t, "camelot", sequence.Sequence[0].Protocol)
	assert.InDelta(t, 17, sequence.TotalCost, 1e-9)
}

func TestOptimizeSequenceBadBody(t *testing.T) {
	server := newTestServer(t)

	recorder := doRequest(t, server, http.MethodPost, "/api/sequence", []byte("{not json"))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetParameters(t *testing.T) {
	server := newTestServer(t)

	recorder := doRequest(t, server, http.MethodGet, "/api/parameters", nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Parameters types.EngineParameters `json:"parameters"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, config.DefaultEngineParameters, body.Parameters)
}

func TestWalletAddressValidation(t *testing.T) {
	server := newTestServer(t)

	for _, target := range []string{
		"/api/wallets/not-an-address/coverage",
		"/api/wallets/0x123/gaps",
	} {
		recorder := doRequest(t, server, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, target)
	}
}

func TestPutActivity(t *testing.T) {
	server := newTestServer(t)
	target := "/api/wallets/0x0123456789abcdef0123456789abcdef01234567/activity"

	t.Run("bad body", func(t *testing.T) {
		recorder := doRequest(t, server, http.MethodPut, target, []byte("{not json"))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("storage failure reported", func(t *testing.T) {
		payload, err := json.Marshal(map[string]types.UserProtocolActivity{
			"uniswap": {Transactions: 3, VolumeUSD: 500, DaysActive: 7},
		})
		require.NoError(t, err)

		// No database behind the test server; the batch write fails as a
		// unit and the handler reports it.
		recorder := doRequest(t, server, http.MethodPut, target, payload)
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}

func TestCORSHeaders(t *testing.T) {
	server := newTestServer(t)

	recorder := doRequest(t, server, http.MethodGet, "/api/protocols", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDPropagation(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/protocols", nil)
	req.Header.Set("X-Request-ID", "test-id-123")
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, req)
	assert.Equal(t, "test-id-123", recorder.Header().Get("X-Request-ID"))

	recorder = doRequest(t, server, http.MethodGet, "/api/protocols", nil)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}
