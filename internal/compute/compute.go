// Package compute exposes the transformation engine over HTTP: pairwise
// distance matrices, per-sample amplitudes and fixed-grid feature vectors.
package compute

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/go-tda/tda/internal/diagram"
	"github.com/go-tda/tda/internal/logging"
)

const maxBodyBytes = 64 * 1024 * 1024

type Config struct {
	RequestTimeout time.Duration `envconfig:"TDA_REQUEST_TIMEOUT" default:"30s"`
}

// checkRequest enforces the method and content type shared by all endpoints.
func checkRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) bool {
	logger := logging.FromContext(ctx)
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		logger.Debug(fmt.Sprintf(`{"error": "method %v is not allowed"}`, r.Method))
		_, _ = fmt.Fprintf(w, `{"error": "method %v is not allowed"}`, r.Method)
		return false
	}
	if t := r.Header.Get("content-type"); len(t) < 16 || t[:16] != "application/json" {
		w.WriteHeader(http.StatusUnsupportedMediaType)
		logger.Debug(`{"error": "content-type is not application/json"}`)
		_, _ = fmt.Fprint(w, `{"error": "content-type is not application/json"}`)
		return false
	}
	return true
}

func toCollection(raw [][]diagram.Point) diagram.Collection {
	c := make(diagram.Collection, len(raw))
	for i, d := range raw {
		c[i] = diagram.Diagram(d)
	}
	return c
}

func matRows(m *mat.Dense) [][]float64 {
	rows, cols := m.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		copy(row, m.RawRowView(i))
		out[i] = row
	}
	return out
}
