package dashboard

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	errChartCode     = errors.New("dashboard: chart code is required")
	errChartProvider = errors.New("dashboard: chart provider is required")
)

// Registry maps chart codes to their definition and the provider that
// renders them. Definitions keep their registration order.
type Registry struct {
	mu     sync.RWMutex
	codes  []string
	charts map[string]registration
}

type registration struct {
	def      ChartDefinition
	provider Provider
}

// NewRegistry registers the built-in charts, each rendered by go-echarts with
// opts.
func NewRegistry(opts ...EChartsProviderOption) *Registry {
	reg := &Registry{charts: map[string]registration{}}
	builders := defaultSpecBuilders()
	for _, def := range DefaultChartDefinitions() {
		reg.put(def, NewEChartsProvider(def.ChartType, builders[def.Code], opts...))
	}
	return reg
}

// Register adds a chart, or replaces one with the same code in place.
func (r *Registry) Register(def ChartDefinition, provider Provider) error {
	if def.Code == "" {
		return errChartCode
	}
	if provider == nil {
		return errChartProvider
	}
	r.put(def, provider)
	return nil
}

// Override swaps the provider of an already registered chart.
func (r *Registry) Override(code string, provider Provider) error {
	if provider == nil {
		return errChartProvider
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.charts[code]
	if !ok {
		return fmt.Errorf("dashboard: chart %q is not registered", code)
	}
	entry.provider = provider
	r.charts[code] = entry
	return nil
}

func (r *Registry) put(def ChartDefinition, provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.charts[def.Code]; !ok {
		r.codes = append(r.codes, def.Code)
	}
	r.charts[def.Code] = registration{def: def, provider: provider}
}

func (r *Registry) Definition(code string) (ChartDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.charts[code]
	return entry.def, ok
}

func (r *Registry) Provider(code string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.charts[code]
	return entry.provider, ok
}

// Definitions lists every chart in registration order.
func (r *Registry) Definitions() []ChartDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChartDefinition, 0, len(r.codes))
	for _, code := range r.codes {
		out = append(out, r.charts[code].def)
	}
	return out
}

// Codes lists the registered chart codes in registration order.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.codes)
}
