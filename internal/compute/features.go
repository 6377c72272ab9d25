package compute

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/go-tda/tda/internal/diagram"
	"github.com/go-tda/tda/internal/features"
	"github.com/go-tda/tda/internal/httputil"
	"github.com/go-tda/tda/internal/statestore"
	"github.com/go-tda/tda/internal/telemetry"
	"github.com/go-tda/tda/pkg/rworker"
)

var errBadStateID = fmt.Errorf("malformed state id")

type featuresRequest struct {
	// Extractor is one of entropy, betti, landscape, heat.
	Extractor string `json:"extractor"`
	// StateID reuses a persisted fitted state instead of fitting Reference.
	StateID    string            `json:"stateId"`
	Reference  [][]diagram.Point `json:"reference"`
	Collection [][]diagram.Point `json:"collection"`
}

type featuresResponse struct {
	StateID  string        `json:"stateId,omitempty"`
	Dims     []int         `json:"dims"`
	Features [][][]float64 `json:"features"`
}

func NewFeaturesHandler(cfg *Config, featuresCfg features.Config, store *statestore.DB) (http.Handler, error) {
	return &featuresHandler{cfg: cfg, featuresCfg: featuresCfg, store: store}, nil
}

type featuresHandler struct {
	cfg         *Config
	featuresCfg features.Config
	store       *statestore.DB
}

func (h *featuresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req featuresRequest
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

	ext, err := features.For(req.Extractor, h.featuresCfg)
	if err != nil {
		respComputeErr(ctx, w, err)
		return
	}

	stateID, err := h.prepare(ctx, ext, &req)
	if err != nil {
		respComputeErr(ctx, w, err)
		return
	}

	c := toCollection(req.Collection)
	if len(c) == 0 {
		c = toCollection(req.Reference)
	}
	if err := c.Validate(); err != nil {
		respComputeErr(ctx, w, err)
		return
	}

	dims := ext.Dims()
	out := make([][][]float64, len(c))
	err = rworker.Each(h.featuresCfg.Workers, len(c), func(i int) error {
		rows := make([][]float64, len(dims))
		for k, q := range dims {
			row, err := ext.EvalDim(q, c[i])
			if err != nil {
				return err
			}
			rows[k] = row
		}
		out[i] = rows
		return nil
	})
	if err != nil {
		respComputeErr(ctx, w, err)
		return
	}

	telemetry.RecordTransform(ctx, "features:"+strings.ToLower(req.Extractor), start, int64(len(c)))
	httputil.WriteJSON(ctx, w, &featuresResponse{StateID: stateID, Dims: dims, Features: out})
}

// prepare restores a persisted fitted state or fits the reference, persisting
// the fresh state when a store is configured.
func (h *featuresHandler) prepare(ctx context.Context, ext features.Extractor, req *featuresRequest) (string, error) {
	kind := strings.ToUpper(req.Extractor)
	if req.StateID != "" {
		id, err := uuid.Parse(req.StateID)
		if err != nil {
			return "", fmt.Errorf("%w: %v", errBadStateID, err)
		}
		if h.store == nil {
			return "", statestore.ErrNotFound
		}
		state, err := h.store.Load(ctx, kind, id)
		if err != nil {
			return "", err
		}
		return req.StateID, ext.Restore(state)
	}

	if err := ext.Fit(toCollection(req.Reference)); err != nil {
		return "", err
	}
	if h.store == nil {
		return "", nil
	}
	id, err := h.store.Save(ctx, kind, ext.State())
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
