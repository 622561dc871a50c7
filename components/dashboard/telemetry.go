package dashboard

import "context"

// Telemetry event names recorded by the service and its commands. Mutations
// record "dashboard.<object>.<verb>".
const (
	TelemetryInvalidate     = "dashboard.invalidate"
	TelemetryRefresh        = "dashboard.refresh"
	TelemetryDashboardView  = "dashboard.view.dashboard"
	TelemetryStatisticsView = "dashboard.view.statistics"
	TelemetryChartError     = "dashboard.chart.error"
	TelemetryActivityError  = "dashboard.activity.error"
	TelemetryRefreshError   = "dashboard.refresh.error"
)

// Telemetry receives named measurements. Payloads carrying a non-empty
// "error" string describe a degraded but non-fatal operation.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// TelemetryFunc adapts a function into Telemetry.
type TelemetryFunc func(ctx context.Context, event string, payload map[string]any)

func (f TelemetryFunc) Record(ctx context.Context, event string, payload map[string]any) {
	f(ctx, event, payload)
}

// Telemetries records into every non-nil sink in order.
type Telemetries []Telemetry

func (ts Telemetries) Record(ctx context.Context, event string, payload map[string]any) {
	for _, t := range ts {
		if t != nil {
			t.Record(ctx, event, payload)
		}
	}
}

func telemetryOrDiscard(t Telemetry) Telemetry {
	if t == nil {
		return TelemetryFunc(func(context.Context, string, map[string]any) {})
	}
	return t
}
