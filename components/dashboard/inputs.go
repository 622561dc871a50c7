package dashboard

import (
	"errors"
	"strings"
)

var (
	ErrImageRequired    = errors.New("dashboard: an image is required to create an event")
	ErrPasswordMismatch = errors.New("dashboard: password confirmation does not match")
	ErrPasswordRequired = errors.New("dashboard: password is required to create an administrator")
)

// Upload is a file sent with a multipart request.
type Upload struct {
	Filename string `json:"filename"`
	Content  []byte `json:"-"`
}

// Empty reports whether there is nothing to send.
func (u *Upload) Empty() bool {
	return u == nil || len(u.Content) == 0
}

// EventInput creates or updates an event.
type EventInput struct {
	Title     string  `json:"title"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time,omitempty"`
	EndTime   string  `json:"end_time,omitempty"`
	Location  string  `json:"location"`
	EventType string  `json:"event_type,omitempty"`
	Image     *Upload `json:"-"`
}

// TicketInput creates or updates a ticket type of an event.
type TicketInput struct {
	EventID int     `json:"event_id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Stock   int     `json:"stock"`
}

// AdminInput creates or updates an administrator. Role uses the backend codes
// superadmin, admin or scanner.
type AdminInput struct {
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Email                string `json:"email"`
	Role                 string `json:"role"`
	Password             string `json:"password,omitempty"`
	PasswordConfirmation string `json:"-"`
}

// CheckPasswords verifies the confirmation, requiring a password on create.
func (in AdminInput) CheckPasswords(creating bool) error {
	if creating && in.Password == "" {
		return ErrPasswordRequired
	}
	if in.Password != in.PasswordConfirmation {
		return ErrPasswordMismatch
	}
	return nil
}

// ProfileInput updates the signed-in administrator profile.
type ProfileInput struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Photo     *Upload `json:"-"`
}

// RoleCode converts a display role back to its backend code.
func RoleCode(role Role) string {
	switch role {
	case RoleSuperAdmin:
		return "superadmin"
	case RoleScanner:
		return "scanner"
	default:
		return "admin"
	}
}

// ParseRole maps a backend role code (or display label) to a Role. Unknown
// values map to RoleAdmin.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "superadmin", "super admin":
		return RoleSuperAdmin
	case "scanner":
		return RoleScanner
	default:
		return RoleAdmin
	}
}
