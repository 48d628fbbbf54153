package web

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/farmsight/engine/internal/engine"
	"github.com/farmsight/engine/internal/state"
	"github.com/farmsight/engine/internal/types"
	"github.com/gorilla/mux"
)

// handleHealth returns server health status including database connectivity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	dbHealthy := true
	if err := state.TestDBConnection(); err != nil {
		dbHealthy = false
	}

	catalogSize := len(s.catalog.Snapshot())

	overallStatus := "OK"
	statusCode := http.StatusOK
	if !dbHealthy {
		overallStatus = "DEGRADED"
		statusCode = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"system": map[string]interface{}{
			"version":          runtime.Version(),
			"goroutines_count": runtime.NumGoroutine(),
			"alloc_bytes":      memStats.Alloc,
			"gc_cycles":        memStats.NumGC,
		},
		"component": map[string]interface{}{
			"name":    "farming-optimization-engine",
			"version": "1.0.0",
		},
		"engine_status": map[string]interface{}{
			"database_healthy": dbHealthy,
			"catalog_size":     catalogSize,
			"catalog_version":  s.catalog.Version(),
		},
	}

	s.writeJSONResponse(w, statusCode, response)
}

// handleGetProtocols returns the current catalog snapshot.
func (s *Server) handleGetProtocols(w http.ResponseWriter, r *http.Request) {
	protocols := s.catalog.Snapshot()
	response := map[string]interface{}{
		"protocols": protocols,
		"count":     len(protocols),
		"version":   s.catalog.Version(),
	}
	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetEstimates returns the cached reward estimate for every catalog
// protocol.
func (s *Server) handleGetEstimates(w http.ResponseWriter, r *http.Request) {
	protocols := s.catalog.Snapshot()
	version := s.catalog.Version()

	type estimate struct {
		Protocol        string  `json:"protocol"`
		PotentialReward float64 `json:"potential_reward"`
	}
	estimates := make([]estimate, 0, len(protocols))
	for _, protocol := range protocols {
		estimates = append(estimates, estimate{
			Protocol:        protocol.Name,
			PotentialReward: s.estimator.Estimate(protocol, version),
		})
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"estimates": estimates,
		"count":     len(estimates),
	})
}

// handleGetPredictions returns future-airdrop forecasts over the catalog.
func (s *Server) handleGetPredictions(w http.ResponseWriter, r *http.Request) {
	predictions := engine.PredictFutureAirdrops(s.catalog.Snapshot(), s.params)
	response := map[string]interface{}{
		"predictions": predictions,
		"count":       len(predictions),
	}
	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetStrategies generates the strategy archetypes under the caller's
// budget and available time.
func (s *Server) handleGetStrategies(w http.ResponseWriter, r *http.Request) {
	budget, err := parsePositiveFloat(r.URL.Query().Get("budget"))
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid budget parameter")
		return
	}
	hours, err := parsePositiveFloat(r.URL.Query().Get("hours"))
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid hours parameter")
		return
	}

	strategies := engine.GenerateStrategies(s.catalog.Snapshot(), budget, hours, s.params)
	response := map[string]interface{}{
		"strategies": strategies,
		"count":      len(strategies),
		"budget":     budget,
		"hours":      hours,
	}
	s.writeJSONResponse(w, http.StatusOK, response)
}

// sequenceRequest is the body of POST /api/sequence.
type sequenceRequest struct {
	Actions      []types.FarmingAction `json:"actions"`
	MaxBudget    float64               `json:"max_budget"`
	MaxTimeHours float64               `json:"max_time_hours"`
}

// handleOptimizeSequence runs the budget/time-constrained action selection
// over caller-supplied candidate actions.
func (s *Server) handleOptimizeSequence(w http.ResponseWriter, r *http.Request) {
	var req sequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sequence := engine.OptimizeActionSequence(req.Actions, req.MaxBudget, req.MaxTimeHours)
	s.writeJSONResponse(w, http.StatusOK, sequence)
}

// handleGetParameters returns the engine parameters in use.
func (s *Server) handleGetParameters(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"parameters": s.params,
		"timestamp":  time.Now().UTC(),
	}
	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetCoverage analyzes which catalog protocols the wallet already farms.
func (s *Server) handleGetCoverage(w http.ResponseWriter, r *http.Request) {
	address, ok := s.walletAddress(w, r)
	if !ok {
		return
	}

	activity, err := state.LoadWalletActivity(address)
	if err != nil {
		webLogger.Error().Err(err).Str("wallet", address).Msg("Failed to load wallet activity")
		s.writeErrorResponse(w, http.StatusInternalServerError, "Failed to load wallet activity")
		return
	}

	// Sorted for deterministic output; map iteration order is random.
	protocolIDs := make([]string, 0, len(activity))
	for name := range activity {
		protocolIDs = append(protocolIDs, name)
	}
	sort.Strings(protocolIDs)

	report := engine.AnalyzeCurrentFarming(protocolIDs, s.catalog.Snapshot(), s.params)
	s.writeJSONResponse(w, http.StatusOK, report)
}

// handleGetGaps reports the wallet's remaining eligibility requirements.
func (s *Server) handleGetGaps(w http.ResponseWriter, r *http.Request) {
	address, ok := s.walletAddress(w, r)
	if !ok {
		return
	}

	activity, err := state.LoadWalletActivity(address)
	if err != nil {
		webLogger.Error().Err(err).Str("wallet", address).Msg("Failed to load wallet activity")
		s.writeErrorResponse(w, http.StatusInternalServerError, "Failed to load wallet activity")
		return
	}

	gaps := engine.IdentifyEligibilityGaps(activity, s.catalog.Snapshot(), s.params)
	response := map[string]interface{}{
		"gaps":  gaps,
		"count": len(gaps),
	}
	s.writeJSONResponse(w, http.StatusOK, response)
}

// handlePutActivity stores per-protocol activity delivered by the indexing
// layer for one wallet.
func (s *Server) handlePutActivity(w http.ResponseWriter, r *http.Request) {
	address, ok := s.walletAddress(w, r)
	if !ok {
		return
	}

	var activity map[string]types.UserProtocolActivity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Whole batch or nothing; a mid-batch failure must not leave a partial
	// view of the wallet behind.
	if err := state.UpsertWalletActivityBatch(address, activity); err != nil {
		webLogger.Error().Err(err).Str("wallet", address).
			Msg("Failed to store wallet activity")
		s.writeErrorResponse(w, http.StatusInternalServerError, "Failed to store wallet activity")
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"stored": len(activity),
		"wallet": address,
	})
}

// walletAddress extracts and validates the wallet address path variable,
// writing a 400 response when it is not a well-formed hex address.
func (s *Server) walletAddress(w http.ResponseWriter, r *http.Request) (string, bool) {
	address := mux.Vars(r)["address"]
	if !common.IsHexAddress(address) {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid wallet address")
		return "", false
	}
	return common.HexToAddress(address).Hex(), true
}

// parsePositiveFloat parses a non-negative float query parameter.
func parsePositiveFloat(raw string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, strconv.ErrRange
	}
	return value, nil
}
