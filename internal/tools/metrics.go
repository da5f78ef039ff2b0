package tools

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter           = otel.Meter("tools")
	toolInvocations metric.Int64Counter
)

func init() {
	var err error
	toolInvocations, err = meter.Int64Counter(
		"tool_invocations_total",
		metric.WithDescription("Total tool invocations routed to connections"),
	)
	if err != nil {
		panic(err)
	}
}

// RecordToolInvocation records one tool invocation and its outcome.
func RecordToolInvocation(ctx context.Context, toolName string, isError bool) {
	toolInvocations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool_name", toolName),
		attribute.Bool("error", isError),
	))
}
