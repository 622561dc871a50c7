package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticProvider(html string) Provider {
	return ProviderFunc(func(context.Context, ChartContext) (ChartData, error) {
		return ChartData{"chart_html": html}, nil
	})
}

func TestRegistryBuiltInCharts(t *testing.T) {
	reg := NewRegistry(WithChartCache(nil))
	assert.Equal(t, []string{ChartSalesTrend, ChartTicketMix, ChartTopEvents, ChartOccupancy}, reg.Codes())

	defs := reg.Definitions()
	require.Len(t, defs, 4)
	assert.Equal(t, "gauge", defs[3].ChartType)
	for _, code := range reg.Codes() {
		provider, ok := reg.Provider(code)
		assert.True(t, ok, code)
		assert.NotNil(t, provider, code)
	}
}

func TestRegistryRegisterValidatesAndReplacesInPlace(t *testing.T) {
	reg := NewRegistry()
	assert.ErrorIs(t, reg.Register(ChartDefinition{}, staticProvider("x")), errChartCode)
	assert.ErrorIs(t, reg.Register(ChartDefinition{Code: "refunds"}, nil), errChartProvider)

	require.NoError(t, reg.Register(ChartDefinition{Code: ChartTicketMix, Name: "Billets par type", ChartType: "bar"}, staticProvider("mix")))
	require.NoError(t, reg.Register(ChartDefinition{Code: "refunds", Name: "Remboursements", ChartType: "line"}, staticProvider("refunds")))

	assert.Equal(t, []string{ChartSalesTrend, ChartTicketMix, ChartTopEvents, ChartOccupancy, "refunds"}, reg.Codes())
	def, ok := reg.Definition(ChartTicketMix)
	require.True(t, ok)
	assert.Equal(t, "Billets par type", def.Name)
}

func TestRegistryOverrideProvider(t *testing.T) {
	reg := NewRegistry()
	assert.Error(t, reg.Override("missing", staticProvider("x")))
	require.NoError(t, reg.Override(ChartOccupancy, staticProvider("<div>custom</div>")))

	svc := NewService(Options{Charts: reg})
	data, err := svc.Chart(context.Background(), ViewerContext{}, ChartOccupancy, Dataset{})
	require.NoError(t, err)
	assert.Equal(t, "<div>custom</div>", data.HTML())

	_, err = svc.Chart(context.Background(), ViewerContext{}, "unknown", Dataset{})
	assert.Error(t, err)
}
