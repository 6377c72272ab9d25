package features

import (
	"fmt"
	"strings"

	"github.com/go-tda/tda/internal/diagram"
)

var ErrUnknownExtractor = fmt.Errorf("features: unknown extractor")

// Extractor is the uniform surface of the four feature maps: fit a grid from
// reference data, evaluate single diagrams per dimension on it, and expose
// the fitted state as a flat mapping.
type Extractor interface {
	Fit(c diagram.Collection) error
	EvalDim(dim int, d diagram.Diagram) ([]float64, error)
	Dims() []int
	State() map[string]string
	Restore(state map[string]string) error
}

var (
	_ Extractor = (*Entropy)(nil)
	_ Extractor = (*BettiCurve)(nil)
	_ Extractor = (*Landscape)(nil)
	_ Extractor = (*HeatKernel)(nil)
)

// For resolves a case-insensitive extractor name.
func For(name string, cfg Config) (Extractor, error) {
	switch strings.ToUpper(name) {
	case "ENTROPY":
		return NewEntropy(cfg), nil
	case "BETTI":
		return NewBettiCurve(cfg), nil
	case "LANDSCAPE":
		return NewLandscape(cfg), nil
	case "HEAT":
		return NewHeatKernel(cfg), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownExtractor, name)
}
