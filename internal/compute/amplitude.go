package compute

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-tda/tda/internal/diagram"
	"github.com/go-tda/tda/internal/engine"
	"github.com/go-tda/tda/internal/httputil"
	"github.com/go-tda/tda/internal/telemetry"
)

type amplitudeRequest struct {
	Reference  [][]diagram.Point `json:"reference"`
	Collection [][]diagram.Point `json:"collection"`
	// PerDim keeps one amplitude per homology dimension instead of
	// aggregating.
	PerDim bool `json:"perDim"`
}

type amplitudeResponse struct {
	Dims       []int       `json:"dims"`
	Amplitudes []float64   `json:"amplitudes,omitempty"`
	PerDim     [][]float64 `json:"perDim,omitempty"`
}

func NewAmplitudeHandler(cfg *Config, provide engine.ProvideAmplitudeFn) (http.Handler, error) {
	if provide == nil {
		return nil, fmt.Errorf("amplitude engine provider is not created")
	}
	return &amplitudeHandler{cfg: cfg, provide: provide}, nil
}

type amplitudeHandler struct {
	cfg     *Config
	provide engine.ProvideAmplitudeFn
}

func (h *amplitudeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req amplitudeRequest
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
		httputil.RespInternalError(ctx, w, "unable to create amplitude engine: %v", err)
		return
	}

	ref := toCollection(req.Reference)
	if err := eng.Fit(ctx, ref); err != nil {
		respComputeErr(ctx, w, err)
		return
	}
	c := ref
	if len(req.Collection) > 0 {
		c = toCollection(req.Collection)
	}

	resp := &amplitudeResponse{Dims: eng.Dims()}
	if req.PerDim {
		m, err := eng.TransformPerDim(ctx, c)
		if err != nil {
			respComputeErr(ctx, w, err)
			return
		}
		resp.PerDim = matRows(m)
	} else {
		amps, err := eng.Transform(ctx, c)
		if err != nil {
			respComputeErr(ctx, w, err)
			return
		}
		resp.Amplitudes = amps
	}

	telemetry.RecordTransform(ctx, "amplitude", start, int64(len(c)))
	httputil.WriteJSON(ctx, w, resp)
}
