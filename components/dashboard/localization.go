package dashboard

import "strings"

// DefaultLocale is used when the viewer has no locale.
const DefaultLocale = "fr"

var pageTitles = map[Page]map[string]string{
	PageDashboard:  {"fr": "Tableau de bord", "en": "Dashboard"},
	PageStatistics: {"fr": "Statistiques", "en": "Statistics"},
	PageEvents:     {"fr": "Événements", "en": "Events"},
	PageTickets:    {"fr": "Billetterie", "en": "Ticket sales"},
	PageClients:    {"fr": "Clients", "en": "Clients"},
	PageAccounts:   {"fr": "Comptes clients", "en": "Client accounts"},
	PageUsers:      {"fr": "Utilisateurs", "en": "Users"},
	PageSettings:   {"fr": "Paramètres", "en": "Settings"},
}

// Title returns the French menu label.
func (p Page) Title() string {
	return p.TitleFor(DefaultLocale)
}

// TitleFor returns the menu label for locale, falling back to French.
func (p Page) TitleFor(locale string) string {
	values := pageTitles[p]
	return ResolveLocalizedValue(values, locale, ResolveLocalizedValue(values, DefaultLocale, string(p)))
}

// ResolveLocalizedValue selects the best translation for the provided locale and falls back to the supplied value.
// Keys are matched case-insensitively, and language-region pairs (`fr-ca`) automatically fall back to their
// base language (`fr`) when present.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	return fallback
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	return append(candidates, "default")
}

func normalizeLocale(locale string) string {
	return strings.TrimSpace(strings.ToLower(locale))
}
