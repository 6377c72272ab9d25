// Package telemetry exposes opencensus measures for the transform endpoints
// and a prometheus exporter to surface them.
package telemetry

import (
	"context"
	"time"

	ocprom "contrib.go.opencensus.io/exporter/prometheus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	MTransformLatencyMs = stats.Float64("tda/transform_latency", "Latency of one transform call", stats.UnitMilliseconds)
	MPairsComputed      = stats.Int64("tda/pairs_computed", "Diagram pairs measured by one call", stats.UnitDimensionless)

	KeyOp = tag.MustNewKey("op")
)

func Views() []*view.View {
	return []*view.View{
		{
			Name:        "tda/transform_latency",
			Description: "Transform latency distribution",
			Measure:     MTransformLatencyMs,
			TagKeys:     []tag.Key{KeyOp},
			Aggregation: view.Distribution(1, 5, 10, 50, 100, 500, 1000, 5000),
		},
		{
			Name:        "tda/pairs_computed",
			Description: "Total diagram pairs measured",
			Measure:     MPairsComputed,
			TagKeys:     []tag.Key{KeyOp},
			Aggregation: view.Sum(),
		},
	}
}

func Register() error {
	return view.Register(Views()...)
}

// NewExporter builds the prometheus exporter to mount on the HTTP mux.
func NewExporter() (*ocprom.Exporter, error) {
	return ocprom.NewExporter(ocprom.Options{Namespace: "tda"})
}

// RecordTransform tags and records one transform call.
func RecordTransform(ctx context.Context, op string, start time.Time, pairs int64) {
	ctx, err := tag.New(ctx, tag.Upsert(KeyOp, op))
	if err != nil {
		return
	}
	stats.Record(ctx,
		MTransformLatencyMs.M(float64(time.Since(start).Milliseconds())),
		MPairsComputed.M(pairs),
	)
}
