package dashboard

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var frenchPrinter = message.NewPrinter(language.French)

// FormatCurrency renders an amount in FCFA with French grouping. FCFA has no
// minor unit, so trailing zero decimals are dropped.
func FormatCurrency(amount float64) string {
	return frenchPrinter.Sprint(number.Decimal(amount, number.MaxFractionDigits(3))) + " FCFA"
}

// FormatEuro renders client account figures, which are held in euros.
func FormatEuro(amount float64) string {
	return frenchPrinter.Sprintf("%.2f €", amount)
}

// FormatNumber renders an integer with French grouping.
func FormatNumber(n int) string {
	return frenchPrinter.Sprintf("%d", n)
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(p float64) string {
	return frenchPrinter.Sprintf("%.1f %%", p)
}

// FormatLongDate renders "Lundi 12 octobre 2026".
func FormatLongDate(t time.Time) string {
	return capitalize(monday.Format(t, "Monday 2 January 2006", monday.LocaleFrFR))
}

// FormatShortDate renders "12/10/2026".
func FormatShortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Initial returns the upper-cased first letter of name, or fallback.
func Initial(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

// templateHelpers exposes formatting functions to page templates.
func templateHelpers() map[string]any {
	return map[string]any{
		"currency":   FormatCurrency,
		"euro":       FormatEuro,
		"number":     FormatNumber,
		"percent":    FormatPercent,
		"short_date": FormatShortDate,
		"long_date":  FormatLongDate,
	}
}
