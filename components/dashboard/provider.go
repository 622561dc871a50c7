package dashboard

import "context"

// Provider produces the render payload of a chart.
type Provider interface {
	Fetch(ctx context.Context, meta ChartContext) (ChartData, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(ctx context.Context, meta ChartContext) (ChartData, error)

// Fetch calls f.
func (f ProviderFunc) Fetch(ctx context.Context, meta ChartContext) (ChartData, error) {
	return f(ctx, meta)
}

// Dataset is the already-filtered data a chart is drawn from.
type Dataset struct {
	Events    []Event
	Sales     []SalesPoint
	Summary   Summary
	Breakdown []TypeBreakdown
	TopEvents []RankedEvent
}

// ChartContext contains what providers need to draw one chart.
type ChartContext struct {
	Definition ChartDefinition
	Viewer     ViewerContext
	Dataset    Dataset
}

// ChartData is an opaque payload passed to templates.
type ChartData map[string]any

// HTML returns the rendered chart markup, if any.
func (d ChartData) HTML() string {
	html, _ := d["chart_html"].(string)
	return html
}
