package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the ledger's read-only view of an account: where to send alerts
// and whether the owner wants them.
type User struct {
	ID                 uuid.UUID
	Email              string
	Name               string
	EmailNotifications bool
	BudgetAlerts       bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewUser returns a user who receives every notification.
func NewUser(email, name string) *User {
	now := time.Now().UTC()
	return &User{
		ID:                 uuid.New(),
		Email:              email,
		Name:               name,
		EmailNotifications: true,
		BudgetAlerts:       true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// WantsBudgetAlerts reports whether alert emails may be queued for the user.
// Both the global email switch and the budget alert switch must be on.
func (u *User) WantsBudgetAlerts() bool {
	return u.Email != "" && u.EmailNotifications && u.BudgetAlerts
}

// DisplayName is the name used to greet the user, falling back to the local
// part of the email address.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}
