package backend

import (
	"bytes"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-ticketdash/components/dashboard"
)

const (
	defaultEventType  = "Autre"
	placeholderImage  = "https://via.placeholder.com/800x400"
	notProvided       = "Non renseigné"
	neverLoggedIn     = "Jamais"
	avatarServiceURL  = "https://ui-avatars.com/api/"
	avatarBackground  = "10b981"
	avatarColor       = "fff"
	defaultAdminBadge = "A"
)

// number decodes a JSON number, a numeric string or null.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = number(v)
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = number(v)
	return nil
}

func (n number) Int() int { return int(math.Round(float64(n))) }

// identifier decodes a numeric or string id into its string form.
type identifier string

func (i *identifier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*i = identifier(s)
		return nil
	}
	*i = identifier(string(data))
	return nil
}

func (i identifier) Int() int {
	v, _ := strconv.Atoi(string(i))
	return v
}

type eventRecord struct {
	ID          identifier `json:"id_evenement"`
	Title       string     `json:"titre_evenement"`
	Date        string     `json:"date"`
	StartTime   string     `json:"heure_debut"`
	EndTime     string     `json:"heure_fin"`
	Location    string     `json:"lieu"`
	Description string     `json:"description"`
	EventType   string     `json:"type_evenement"`
	Image       string     `json:"image"`
}

type ticketRecord struct {
	ID    identifier `json:"id_ticket"`
	Type  string     `json:"type"`
	Price number     `json:"prix"`
	Stock number     `json:"stock"`
}

type clientRecord struct {
	ID           identifier `json:"id_utilisateur"`
	FullName     string     `json:"nom_complet"`
	FirstName    string     `json:"prenom"`
	LastName     string     `json:"nom"`
	Email        string     `json:"email"`
	Phone        string     `json:"tel"`
	Address      string     `json:"adresse"`
	Status       string     `json:"statut"`
	Balance      number     `json:"solde"`
	Referrals    number     `json:"total_code_use"`
	OrdersCount  number     `json:"nombre_commandes"`
	LastLogin    string     `json:"last_login"`
	ProfilePhoto string     `json:"photo_profil"`
}

type adminRecord struct {
	ID        identifier `json:"id_admin"`
	FirstName string     `json:"prenom"`
	LastName  string     `json:"nom"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Statut    string     `json:"statut"`
	Status    string     `json:"status"`
	Photo     string     `json:"photo_profil"`
}

func mapEvent(rec eventRecord, tickets []ticketRecord) dashboard.Event {
	event := dashboard.Event{
		ID:          string(rec.ID),
		Title:       rec.Title,
		Date:        parseDay(rec.Date),
		StartTime:   rec.StartTime,
		EndTime:     rec.EndTime,
		Location:    rec.Location,
		Description: rec.Description,
		EventType:   orDefault(rec.EventType, defaultEventType),
		Status:      dashboard.EventPublished,
		ImageURL:    orDefault(rec.Image, placeholderImage),
		TicketTypes: make([]dashboard.TicketType, 0, len(tickets)),
	}
	for _, t := range tickets {
		event.TicketTypes = append(event.TicketTypes, mapTicket(t))
	}
	return event
}

func mapTicket(rec ticketRecord) dashboard.TicketType {
	price := float64(rec.Price)
	if price < 0 {
		price = 0
	}
	total := rec.Stock.Int()
	if total < 0 {
		total = 0
	}
	return dashboard.TicketType{
		ID:            string(rec.ID),
		Name:          rec.Type,
		Price:         price,
		QuantityTotal: total,
	}
}

func parseDay(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}

func (c *HTTPClient) mapClient(rec clientRecord, now time.Time) dashboard.Client {
	name := strings.TrimSpace(rec.FullName)
	if name == "" {
		name = strings.TrimSpace(rec.FirstName + " " + rec.LastName)
	}
	return dashboard.Client{
		ID:          string(rec.ID),
		Name:        name,
		Email:       rec.Email,
		Phone:       orDefault(rec.Phone, notProvided),
		Location:    orDefault(rec.Address, notProvided),
		Status:      clientStatus(rec.Status),
		OrdersCount: rec.OrdersCount.Int(),
		TotalSpent:  float64(rec.Balance),
		Referrals:   rec.Referrals.Int(),
		LastActive:  lastActive(rec.LastLogin, now),
		Avatar:      c.avatar(rec.ProfilePhoto, name),
	}
}

func clientStatus(raw string) dashboard.ClientStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "inactif":
		return dashboard.ClientInactive
	case "vip":
		return dashboard.ClientVIP
	case "bloqué", "bloque":
		return dashboard.ClientBlocked
	default:
		return dashboard.ClientActive
	}
}

// lastActive renders a relative French label for the last login.
func lastActive(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return neverLoggedIn
	}
	last, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		if last, err = time.Parse("2006-01-02T15:04:05", raw); err != nil {
			return neverLoggedIn
		}
	}
	diff := now.Sub(last)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours() / 24))
	switch {
	case days == 0:
		return "Aujourd'hui"
	case days == 1:
		return "Hier"
	case days < 7:
		return "Il y a " + strconv.Itoa(days) + " jours"
	default:
		return "Il y a " + strconv.Itoa(days/7) + " semaine(s)"
	}
}

func (c *HTTPClient) avatar(photo, name string) string {
	photo = strings.TrimSpace(photo)
	switch {
	case photo == "":
		q := url.Values{}
		q.Set("name", name)
		q.Set("background", avatarBackground)
		q.Set("color", avatarColor)
		return avatarServiceURL + "?" + q.Encode()
	case strings.HasPrefix(photo, "http://"), strings.HasPrefix(photo, "https://"):
		return photo
	default:
		return c.Origin() + "/" + strings.TrimPrefix(photo, "/")
	}
}

func mapUser(rec adminRecord) dashboard.User {
	first := strings.TrimSpace(rec.FirstName)
	badge := defaultAdminBadge
	if first != "" {
		badge = strings.ToUpper(string([]rune(first)[:1]))
	}
	status := rec.Statut
	if status == "" {
		status = rec.Status
	}
	return dashboard.User{
		ID:     rec.ID.Int(),
		Name:   strings.TrimSpace(rec.FirstName + " " + rec.LastName),
		Email:  rec.Email,
		Role:   dashboard.ParseRole(rec.Role),
		Status: userStatus(status),
		Avatar: badge,
	}
}

func userStatus(raw string) dashboard.UserStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "inactif", "inactive":
		return dashboard.UserInactive
	case "suspendu", "suspended":
		return dashboard.UserSuspended
	default:
		return dashboard.UserActive
	}
}

func (c *HTTPClient) mapProfile(rec adminRecord) dashboard.AdminProfile {
	profile := dashboard.AdminProfile{
		ID:        rec.ID.Int(),
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
		Role:      rec.Role,
	}
	if photo := strings.TrimSpace(rec.Photo); photo != "" {
		profile.Photo = c.avatar(photo, "")
	}
	return profile
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
