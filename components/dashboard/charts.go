package dashboard

// Chart codes registered by default.
const (
	ChartSalesTrend = "sales.trend"
	ChartTicketMix  = "tickets.mix"
	ChartTopEvents  = "events.top"
	ChartOccupancy  = "events.occupancy"
)

// ChartDefinition describes a chart the dashboard can draw.
type ChartDefinition struct {
	Code      string `json:"code" yaml:"code"`
	Name      string `json:"name" yaml:"name"`
	ChartType string `json:"chart_type" yaml:"chart_type"`
}

// DefaultChartDefinitions lists the built-in charts.
func DefaultChartDefinitions() []ChartDefinition {
	return []ChartDefinition{
		{Code: ChartSalesTrend, Name: "Évolution des ventes", ChartType: "line"},
		{Code: ChartTicketMix, Name: "Répartition des billets", ChartType: "pie"},
		{Code: ChartTopEvents, Name: "Meilleurs événements", ChartType: "bar"},
		{Code: ChartOccupancy, Name: "Taux de remplissage", ChartType: "gauge"},
	}
}

func defaultSpecBuilders() map[string]SpecBuilder {
	return map[string]SpecBuilder{
		ChartSalesTrend: SalesTrendSpec,
		ChartTicketMix:  TicketMixSpec,
		ChartTopEvents:  TopEventsSpec,
		ChartOccupancy:  OccupancySpec,
	}
}

// SalesTrendSpec plots revenue and tickets sold per sales point.
func SalesTrendSpec(d Dataset) ChartSpec {
	axis := make([]string, len(d.Sales))
	revenue := make([]ChartPoint, len(d.Sales))
	tickets := make([]ChartPoint, len(d.Sales))
	for i, p := range d.Sales {
		axis[i] = p.Label
		revenue[i] = ChartPoint{Label: p.Label, Value: p.Revenue}
		tickets[i] = ChartPoint{Label: p.Label, Value: float64(p.TicketsSold)}
	}
	if len(axis) == 0 {
		return ChartSpec{}
	}
	return ChartSpec{
		XAxis: axis,
		Series: []ChartSeries{
			{Name: "Revenus", Points: revenue},
			{Name: "Billets vendus", Points: tickets},
		},
	}
}

// TicketMixSpec plots the ticket-type breakdown.
func TicketMixSpec(d Dataset) ChartSpec {
	if len(d.Breakdown) == 0 {
		return ChartSpec{}
	}
	points := make([]ChartPoint, len(d.Breakdown))
	for i, b := range d.Breakdown {
		points[i] = ChartPoint{Label: b.Name, Value: float64(b.Value)}
	}
	return ChartSpec{Series: []ChartSeries{{Name: "Billets", Points: points}}}
}

// TopEventsSpec plots revenue of the ranked events.
func TopEventsSpec(d Dataset) ChartSpec {
	if len(d.TopEvents) == 0 {
		return ChartSpec{}
	}
	axis := make([]string, len(d.TopEvents))
	points := make([]ChartPoint, len(d.TopEvents))
	for i, e := range d.TopEvents {
		axis[i] = e.Title
		points[i] = ChartPoint{Label: e.Title, Value: e.Revenue}
	}
	return ChartSpec{XAxis: axis, Series: []ChartSeries{{Name: "Revenus", Points: points}}}
}

// OccupancySpec plots the overall occupancy rate.
func OccupancySpec(d Dataset) ChartSpec {
	return ChartSpec{Series: []ChartSeries{{
		Name:   "Remplissage",
		Points: []ChartPoint{{Label: "Remplissage", Value: roundTo(d.Summary.OccupancyRate, 1)}},
	}}}
}
