package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/iwvelando/gibill-forecast/internal/config"
	"github.com/iwvelando/gibill-forecast/internal/forecast"
	"github.com/iwvelando/gibill-forecast/internal/mha"
	"github.com/iwvelando/gibill-forecast/pkg/benefits"
	"github.com/iwvelando/gibill-forecast/pkg/cashflow"
	"github.com/iwvelando/gibill-forecast/pkg/constants"
	"github.com/iwvelando/gibill-forecast/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RequestIDHeader carries the per-request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the estimate and forecast API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Benefit estimate for a single profile
	mux.HandleFunc("/api/estimate", h.handleEstimate)

	// Forecast API endpoint (file upload)
	mux.HandleFunc("/api/forecast", h.handleForecast)

	// Forecast API endpoint for editor-driven updates
	mux.HandleFunc("/api/editor/forecast", h.handleForecastEditor)

	// Scenario serialization endpoint for editor downloads
	mux.HandleFunc("/api/editor/export", h.handleConfigExport)

	mux.HandleFunc("/api/version", h.handleVersion)

	return h.withRequestID(mux)
}

// withRequestID tags every request with an id, reusing one supplied by the
// client when present.
func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *handler) requestLogger(r *http.Request) *zap.Logger {
	if id, ok := r.Context().Value(requestIDKey{}).(string); ok {
		return h.logger.With(zap.String("request_id", id))
	}
	return h.logger
}

type estimateRequest struct {
	Profile benefits.Profile      `json:"profile"`
	Rates   *benefits.AnnualRates `json:"rates,omitempty"`
	FullMHA *float64              `json:"fullMHA,omitempty"`
}

type estimateResponse struct {
	Profile  benefits.Profile     `json:"profile"`
	Rates    benefits.AnnualRates `json:"rates"`
	FullMHA  float64              `json:"fullMHA"`
	Estimate benefits.Estimate    `json:"estimate"`
}

type forecastResponse struct {
	Profile    benefits.Profile       `json:"profile"`
	Rates      benefits.AnnualRates   `json:"rates"`
	FullMHA    float64                `json:"fullMHA"`
	Estimate   benefits.Estimate      `json:"estimate"`
	Rows       []forecastRow          `json:"rows"`
	Summary    forecastSummary        `json:"summary"`
	CSV        string                 `json:"csv"`
	Warnings   []string               `json:"warnings,omitempty"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

type forecastRow struct {
	Month            string  `json:"month"`
	Enrollment       string  `json:"enrollment"`
	Housing          float64 `json:"housing"`
	Disability       float64 `json:"disability"`
	OtherIncome      float64 `json:"otherIncome"`
	TotalIncome      float64 `json:"totalIncome"`
	FixedExpenses    float64 `json:"fixedExpenses"`
	VariableExpenses float64 `json:"variableExpenses"`
	TotalExpenses    float64 `json:"totalExpenses"`
	NetCash          float64 `json:"netCash"`
	Balance          float64 `json:"balance"`
}

type forecastSummary struct {
	Months        int     `json:"months"`
	FinalBalance  float64 `json:"finalBalance"`
	MinBalance    float64 `json:"minBalance"`
	FirstNegative string  `json:"firstNegative,omitempty"`
	RunwayMonths  int     `json:"runwayMonths"`
}

func (h *handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEstimate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	logger := h.requestLogger(r)

	var req estimateRequest
	if !h.decodeJSONBody(w, r, &req, "request", op) {
		return
	}

	rates := benefits.DefaultAnnualRates()
	if req.Rates != nil {
		rates = *req.Rates
	}
	fullMHA := mha.Resolve(mha.NewTable(logger, constants.DefaultFullMHA, nil), req.Profile.SchoolZIP, req.FullMHA)

	estimate, err := benefits.EstimateTerm(req.Profile, rates, fullMHA)
	if err != nil {
		h.respondErrorWithOp(w, r, statusForError(err), err.Error(), op)
		return
	}

	logger.Info("estimate computed",
		zap.String("op", op),
		zap.Float64("monthly_housing", estimate.MonthlyHousing),
	)

	h.writeJSON(w, http.StatusOK, estimateResponse{
		Profile:  req.Profile,
		Rates:    rates,
		FullMHA:  fullMHA,
		Estimate: estimate,
	})
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing scenario file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.requestLogger(r).Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read scenario: %v", err), op)
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	h.runForecast(w, r, configBytes, configMap, start, op)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleForecastEditor(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecastEditor"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	payload, ok := h.decodeEditorPayload(w, r, op)
	if !ok {
		return
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, "invalid config payload: expected object", op)
			return
		}
		configPayload = cfgMap
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to encode scenario: %v", err), op)
		return
	}

	h.runForecast(w, r, configBytes, configPayload, start, op)
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	payload, ok := h.decodeEditorPayload(w, r, op)
	if !ok {
		return
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to encode scenario: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// decodeJSONBody reads at most maxUploadSize bytes of JSON into v. A body over
// the limit is answered with 413, any other failure with 400.
func (h *handler) decodeJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, what, op string) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadSize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("%s exceeds limit of %d bytes", what, h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read %s: %v", what, err), op)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode %s: %v", what, err), op)
		return false
	}
	return true
}

func (h *handler) decodeEditorPayload(w http.ResponseWriter, r *http.Request, op string) (map[string]interface{}, bool) {
	var payload map[string]interface{}
	if !h.decodeJSONBody(w, r, &payload, "scenario", op) {
		return nil, false
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	return payload, true
}

// scenarioKeyOrder is the section order used when exporting a scenario.
var scenarioKeyOrder = []string{"logging", "output", "rates", "mha", "benefits", "forecast", "income", "expenses", "terms"}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range scenarioKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) runForecast(w http.ResponseWriter, r *http.Request, configBytes []byte, configMap map[string]interface{}, start time.Time, op string) {
	logger := h.requestLogger(r)

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	if err := cfg.ParseDates(); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse dates: %v", err), op)
		return
	}

	result, err := forecast.GetForecast(logger, cfg)
	if err != nil {
		h.respondErrorWithOp(w, r, statusForError(err), fmt.Sprintf("failed to compute forecast: %v", err), op)
		return
	}

	elapsed := time.Since(start)

	if configMap == nil {
		configMap = make(map[string]interface{})
	}

	response := forecastResponse{
		Profile:    result.Profile,
		Rates:      result.Rates,
		FullMHA:    result.FullMHA,
		Estimate:   result.Estimate,
		Rows:       buildRows(result.Snapshots),
		Summary:    buildSummary(result.Summary),
		CSV:        output.CsvString(result),
		Warnings:   result.Warnings,
		Duration:   elapsed.String(),
		Config:     configMap,
		ConfigYAML: string(configBytes),
	}

	logger.Info("forecast computed",
		zap.String("op", op),
		zap.Int("rows", len(response.Rows)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

// statusForError maps validation failures to 400 and anything else to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, benefits.ErrInvalidInput),
		errors.Is(err, benefits.ErrInvalidConfiguration),
		errors.Is(err, cashflow.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func buildRows(snapshots []cashflow.Snapshot) []forecastRow {
	rows := make([]forecastRow, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, forecastRow{
			Month:            s.Month.Format(constants.MonthLayout),
			Enrollment:       s.Enrollment,
			Housing:          s.Housing,
			Disability:       s.Disability,
			OtherIncome:      s.OtherIncome,
			TotalIncome:      s.TotalIncome,
			FixedExpenses:    s.FixedExpenses,
			VariableExpenses: s.VariableExpenses,
			TotalExpenses:    s.TotalExpenses,
			NetCash:          s.NetCash,
			Balance:          s.Balance,
		})
	}
	return rows
}

func buildSummary(summary cashflow.Summary) forecastSummary {
	out := forecastSummary{
		Months:       summary.Months,
		FinalBalance: summary.FinalBalance,
		MinBalance:   summary.MinBalance,
		RunwayMonths: summary.RunwayMonths,
	}
	if summary.FirstNegative != nil {
		out.FirstNegative = summary.FirstNegative.Format(constants.MonthLayout)
	}
	return out
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.requestLogger(r).Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
