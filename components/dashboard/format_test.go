package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrenchFormatting(t *testing.T) {
	assert.Equal(t, "90 FCFA", FormatCurrency(90))
	assert.True(t, strings.HasSuffix(FormatCurrency(1234.5), "234,5 FCFA"), FormatCurrency(1234.5))
	assert.True(t, strings.HasPrefix(FormatCurrency(15000), "15"), FormatCurrency(15000))
	assert.NotContains(t, FormatCurrency(15000), "€")
	assert.True(t, strings.HasSuffix(FormatEuro(1234.5), "234,50 €"), FormatEuro(1234.5))
	assert.Equal(t, "12,5 %", FormatPercent(12.5))
	assert.Equal(t, "Lundi 12 octobre 2026", FormatLongDate(time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, "12/10/2026", FormatShortDate(time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", FormatShortDate(time.Time{}))
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "É", Initial("émilie", "A"))
	assert.Equal(t, "A", Initial("  ", "A"))
}
