package dashboard

import (
	"strings"

	"github.com/go-echarts/go-echarts/v2/types"
)

// Theme variants accepted in configuration and viewer preferences.
const (
	ThemeVariantLight = "light"
	ThemeVariantDark  = "dark"
)

// ChartThemeFor maps a variant to a go-echarts theme. Any other non-empty
// value is taken as a go-echarts theme name.
func ChartThemeFor(variant string) string {
	switch strings.ToLower(strings.TrimSpace(variant)) {
	case "", ThemeVariantLight:
		return types.ThemeWesteros
	case ThemeVariantDark:
		return types.ThemeWonderland
	default:
		return strings.ToLower(strings.TrimSpace(variant))
	}
}

// ViewerThemeResolver picks the chart theme from the viewer preference and
// leaves the provider default in place when the viewer has none.
func ViewerThemeResolver(viewer ViewerContext) string {
	if strings.TrimSpace(viewer.Theme) == "" {
		return ""
	}
	return ChartThemeFor(viewer.Theme)
}
