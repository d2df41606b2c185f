package models

import (
	"time"
)

const (
	PlanPersonal = "personal"
	PlanBasic    = "basic"
	PlanPro      = "pro"

	PlanStatusActive  = "active"
	PlanStatusExpired = "expired"
)

type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Name              string     `json:"name,omitempty"`
	AccountType       string     `json:"account_type"`
	PlanStatus        string     `json:"plan_status,omitempty"`
	PlanPrice         *float64   `json:"plan_price,omitempty"`
	PlanStartedAt     *time.Time `json:"plan_started_at,omitempty"`
	PlanNextRenewalAt *time.Time `json:"plan_next_renewal_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// IsPaid reports whether the account is on a paying tier.
func (u *User) IsPaid() bool {
	return u.AccountType == PlanBasic || u.AccountType == PlanPro
}
