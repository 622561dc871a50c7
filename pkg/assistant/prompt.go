package assistant

import (
	"encoding/json"
	"strings"

	"github.com/goliatone/go-ticketdash/components/dashboard"
)

type analysisEvent struct {
	Title     string `json:"title"`
	Sold      int    `json:"sold"`
	Validated int    `json:"validated"`
}

type chatEvent struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	TicketsSold int    `json:"ticketsSold"`
}

type salesRow struct {
	Name    string  `json:"name"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}

func sold(e dashboard.Event) int {
	total := 0
	for _, t := range e.TicketTypes {
		total += t.QuantitySold
	}
	return total
}

func salesRows(sales []dashboard.SalesPoint) []salesRow {
	rows := make([]salesRow, len(sales))
	for i, s := range sales {
		rows[i] = salesRow{Name: s.Label, Sales: s.TicketsSold, Revenue: s.Revenue}
	}
	return rows
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func analysisPrompt(events []dashboard.Event, sales []dashboard.SalesPoint) string {
	rows := make([]analysisEvent, len(events))
	for i, e := range events {
		rows[i] = analysisEvent{Title: e.Title, Sold: sold(e), Validated: e.TicketsValidated}
	}
	var b strings.Builder
	b.WriteString("Agis comme un expert en data analysis pour l'événementiel.\n")
	b.WriteString("Voici les données actuelles de nos événements et ventes récentes :\n\n")
	b.WriteString("Événements: " + mustJSON(rows) + "\n")
	b.WriteString("Ventes récentes (30 jours): " + mustJSON(salesRows(sales)) + "\n\n")
	b.WriteString("Analyse ces données et fournis :\n")
	b.WriteString("1. Un résumé concis de la performance actuelle.\n")
	b.WriteString("2. Une action suggérée pour améliorer les ventes (ex: promo, marketing).\n")
	b.WriteString("3. Une projection de revenu estimée pour le mois prochain.\n")
	b.WriteString("4. Un score de confiance sur cette prédiction (0-100).\n\n")
	b.WriteString("Réponds uniquement avec du JSON valide selon le schéma fourni.\n")
	return b.String()
}

func chatPrompt(history []Message, events []dashboard.Event, sales []dashboard.SalesPoint) string {
	rows := make([]chatEvent, len(events))
	for i, e := range events {
		date := ""
		if !e.Date.IsZero() {
			date = e.Date.Format("2006-01-02")
		}
		rows[i] = chatEvent{Title: e.Title, Date: date, Location: e.Location, Status: string(e.Status), TicketsSold: sold(e)}
	}
	turns := make([]string, len(history))
	for i, m := range history {
		turns[i] = m.Role + ": " + m.Content
	}
	var b strings.Builder
	b.WriteString("Tu es un assistant IA pour EventMaster, une plateforme de gestion d'événements. ")
	b.WriteString("Aide les utilisateurs avec la planification d'événements, l'analyse et la gestion.\n\n")
	b.WriteString("Contexte :\n")
	b.WriteString("Événements : " + mustJSON(rows) + "\n")
	b.WriteString("Ventes récentes : " + mustJSON(salesRows(sales)) + "\n\n")
	b.WriteString("Historique de conversation :\n")
	b.WriteString(strings.Join(turns, "\n") + "\n\n")
	b.WriteString("Réponds de manière utile et concise en français.\n")
	return b.String()
}
