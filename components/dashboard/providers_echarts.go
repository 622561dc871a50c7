package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartSpec is the chart-ready series derived from a dataset.
type ChartSpec struct {
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle,omitempty"`
	XAxis    []string      `json:"x_axis,omitempty"`
	Series   []ChartSeries `json:"series"`
}

// ChartSeries represents a set of values plotted for a given legend entry.
type ChartSeries struct {
	Name   string       `json:"name"`
	Points []ChartPoint `json:"points"`
}

// ChartPoint represents an individual labeled value.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// SpecBuilder derives a ChartSpec from a dataset.
type SpecBuilder func(Dataset) ChartSpec

// ThemeResolver selects a chart theme per viewer.
type ThemeResolver func(ViewerContext) string

// EChartsProvider renders server-side chart HTML for the given chart type.
type EChartsProvider struct {
	chartType     string
	build         SpecBuilder
	cache         RenderCache
	theme         string
	themeResolver ThemeResolver
	assetsHost    string
}

// EChartsProviderOption customizes provider behavior.
type EChartsProviderOption func(*EChartsProvider)

// WithChartCache injects a render cache. A nil cache disables caching.
func WithChartCache(cache RenderCache) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.cache = cache
	}
}

// WithChartTheme sets a static theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.theme = theme
	}
}

// WithChartThemeResolver resolves themes dynamically per viewer.
func WithChartThemeResolver(resolver ThemeResolver) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.themeResolver = resolver
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.assetsHost = host
	}
}

// NewEChartsProvider builds a provider for a specific chart type.
func NewEChartsProvider(chartType string, build SpecBuilder, opts ...EChartsProviderOption) *EChartsProvider {
	p := &EChartsProvider{
		chartType: strings.ToLower(chartType),
		build:     build,
		cache:     sharedChartCache,
		theme:     types.ThemeWesteros,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fetch converts the dataset into go-echarts markup.
func (p *EChartsProvider) Fetch(_ context.Context, meta ChartContext) (ChartData, error) {
	if p.build == nil {
		return nil, fmt.Errorf("dashboard: chart %s has no series builder", meta.Definition.Code)
	}
	spec := p.build(meta.Dataset)
	if spec.Title == "" {
		spec.Title = meta.Definition.Name
	}
	spec = sanitizeSpec(spec)
	if len(spec.Series) == 0 {
		return nil, fmt.Errorf("dashboard: chart %s has no series", meta.Definition.Code)
	}
	theme := p.resolveTheme(meta.Viewer)

	renderFn := func() (string, error) {
		return p.render(spec, theme)
	}

	var (
		html string
		err  error
	)
	if p.cache != nil {
		key := fmt.Sprintf("%s:%s:%s:%s", meta.Definition.Code, p.chartType, theme, seriesDigest(spec))
		html, err = p.cache.GetOrRender(key, renderFn)
	} else {
		html, err = renderFn()
	}
	if err != nil {
		return nil, err
	}

	return ChartData{
		"chart_html": html,
		"chart_type": p.chartType,
		"title":      spec.Title,
		"subtitle":   spec.Subtitle,
		"theme":      theme,
	}, nil
}

func (p *EChartsProvider) render(spec ChartSpec, theme string) (string, error) {
	switch p.chartType {
	case "bar":
		bar := charts.NewBar()
		bar.SetGlobalOptions(p.globalChartOptions(spec, theme)...)
		bar.SetXAxis(spec.XAxis)
		for _, s := range spec.Series {
			bar.AddSeries(s.Name, toBarData(s.Points))
		}
		return renderChart(bar)
	case "line":
		line := charts.NewLine()
		line.SetGlobalOptions(p.globalChartOptions(spec, theme)...)
		line.SetXAxis(spec.XAxis)
		for _, s := range spec.Series {
			line.AddSeries(s.Name, toLineData(s.Points))
		}
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	case "pie":
		pie := charts.NewPie()
		pie.SetGlobalOptions(p.globalChartOptions(spec, theme)...)
		for _, s := range spec.Series {
			pie.AddSeries(s.Name, toPieData(s.Points))
		}
		return renderChart(pie)
	case "gauge":
		gauge := charts.NewGauge()
		gauge.SetGlobalOptions(p.globalChartOptions(ChartSpec{Title: spec.Title}, theme)...)
		for _, s := range spec.Series {
			if len(s.Points) == 0 {
				continue
			}
			gauge.AddSeries(s.Name, []opts.GaugeData{{Name: s.Name, Value: s.Points[0].Value}})
		}
		return renderChart(gauge)
	default:
		return "", fmt.Errorf("dashboard: unsupported chart type: %s", p.chartType)
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (p *EChartsProvider) globalChartOptions(spec ChartSpec, theme string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if p.assetsHost != "" {
		initOpts.AssetsHost = p.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: spec.Subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	}
}

func (p *EChartsProvider) resolveTheme(viewer ViewerContext) string {
	if p.themeResolver != nil {
		if theme := p.themeResolver(viewer); theme != "" {
			return theme
		}
	}
	if p.theme != "" {
		return p.theme
	}
	return types.ThemeWesteros
}

// sanitizeSpec escapes every label before it reaches the markup.
func sanitizeSpec(spec ChartSpec) ChartSpec {
	out := ChartSpec{
		Title:    html.EscapeString(spec.Title),
		Subtitle: html.EscapeString(spec.Subtitle),
		XAxis:    make([]string, len(spec.XAxis)),
		Series:   make([]ChartSeries, len(spec.Series)),
	}
	for i, label := range spec.XAxis {
		out.XAxis[i] = html.EscapeString(label)
	}
	for i, s := range spec.Series {
		points := make([]ChartPoint, len(s.Points))
		for j, pt := range s.Points {
			points[j] = ChartPoint{Label: html.EscapeString(pt.Label), Value: pt.Value}
		}
		out.Series[i] = ChartSeries{Name: html.EscapeString(s.Name), Points: points}
	}
	return out
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toPieData(points []ChartPoint) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		name := point.Label
		if name == "" {
			name = fmt.Sprintf("Part %d", i+1)
		}
		data[i] = opts.PieData{Name: name, Value: point.Value}
	}
	return data
}
