package compute

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-tda/tda/internal/diagram"
	"github.com/go-tda/tda/internal/engine"
	"github.com/go-tda/tda/internal/features"
	"github.com/go-tda/tda/internal/httputil"
	"github.com/go-tda/tda/internal/metric"
	"github.com/go-tda/tda/internal/statestore"
	"github.com/go-tda/tda/internal/telemetry"
)

type distanceRequest struct {
	// Reference is fitted against; Collection, when present, is measured
	// against the reference, otherwise the matrix is pairwise within the
	// reference.
	Reference  [][]diagram.Point `json:"reference"`
	Collection [][]diagram.Point `json:"collection"`
}

type distanceResponse struct {
	Shape  []int       `json:"shape"`
	Matrix [][]float64 `json:"matrix"`
}

func NewDistanceHandler(cfg *Config, provide engine.ProvideDistanceFn) (http.Handler, error) {
	if provide == nil {
		return nil, fmt.Errorf("distance engine provider is not created")
	}
	return &distanceHandler{cfg: cfg, provide: provide}, nil
}

type distanceHandler struct {
	cfg     *Config
	provide engine.ProvideDistanceFn
}

func (h *distanceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req distanceRequest
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()
	start := time.Now()

	if !checkRequest(ctx, w, r) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.DecodeErr(ctx, w, err)
		return
	}

	eng, err := h.provide()
	if err != nil {
		httputil.RespInternalError(ctx, w, "unable to create distance engine: %v", err)
		return
	}

	ref := toCollection(req.Reference)
	out, err := func() (*distanceResponse, error) {
		if len(req.Collection) == 0 {
			m, err := eng.FitTransform(ctx, ref)
			if err != nil {
				return nil, err
			}
			rows, cols := m.Dims()
			return &distanceResponse{Shape: []int{rows, cols}, Matrix: matRows(m)}, nil
		}
		if err := eng.Fit(ctx, ref); err != nil {
			return nil, err
		}
		m, err := eng.Transform(ctx, toCollection(req.Collection))
		if err != nil {
			return nil, err
		}
		rows, cols := m.Dims()
		return &distanceResponse{Shape: []int{rows, cols}, Matrix: matRows(m)}, nil
	}()
	if err != nil {
		respComputeErr(ctx, w, err)
		return
	}

	telemetry.RecordTransform(ctx, "distance", start, int64(out.Shape[0]*out.Shape[1]))
	httputil.WriteJSON(ctx, w, out)
}

// respComputeErr maps domain errors to client responses; anything else is a
// server fault.
func respComputeErr(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, diagram.ErrEmptyCollection),
		errors.Is(err, diagram.ErrInvalidDiagram),
		errors.Is(err, diagram.ErrDimensionMismatch),
		errors.Is(err, metric.ErrUnknownMetric),
		errors.Is(err, features.ErrUnknownExtractor),
		errors.Is(err, statestore.ErrNotFound),
		errors.Is(err, errBadStateID):
		httputil.RespBadRequest(ctx, w, `{"error": "%v"}`, err)
	default:
		httputil.RespInternalError(ctx, w, `{"error": "%v"}`, err)
	}
}
