package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/JoelSantos-JS/Alidash-sub006/config"
	"github.com/JoelSantos-JS/Alidash-sub006/models"
)

const (
	PriceBasic = 9.90
	PricePro   = 24.90
)

// PlanPrice returns the monthly price for a paid tier, 0 for anything else.
func PlanPrice(tier string) float64 {
	switch strings.ToLower(tier) {
	case models.PlanBasic:
		return PriceBasic
	case models.PlanPro:
		return PricePro
	default:
		return 0
	}
}

func IsValidPlan(plan string) bool {
	p := strings.ToLower(plan)
	return p == models.PlanPersonal || p == models.PlanBasic || p == models.PlanPro
}

// PlanChange describes what the renewal state machine decided for one read.
type PlanChange int

const (
	PlanUnchanged PlanChange = iota
	PlanExpired
	PlanBackfilled
)

// EvaluatePlanRenewal runs the lazy renewal state machine over a user record,
// mutating it in place. It never touches storage; the caller persists when the
// result is not PlanUnchanged. Running it twice on the same record is a no-op
// the second time.
func EvaluatePlanRenewal(user *models.User, limits config.Limits, now time.Time) PlanChange {
	if !user.IsPaid() {
		return PlanUnchanged
	}

	// Expiry: renewal date passed by more than the grace window.
	if user.PlanNextRenewalAt != nil && now.After(user.PlanNextRenewalAt.Add(limits.RenewalGrace)) {
		user.AccountType = models.PlanPersonal
		user.PlanStatus = models.PlanStatusExpired
		user.PlanPrice = nil
		return PlanExpired
	}

	// Backfill: paid tier with incomplete plan metadata.
	changed := false
	if user.PlanStartedAt == nil {
		started := now
		user.PlanStartedAt = &started
		changed = true
	}
	if user.PlanNextRenewalAt == nil {
		renewal := now.Add(limits.PlanCycle)
		user.PlanNextRenewalAt = &renewal
		changed = true
	}
	if user.PlanStatus == "" {
		user.PlanStatus = models.PlanStatusActive
		changed = true
	}
	if user.PlanPrice == nil {
		price := PlanPrice(user.AccountType)
		user.PlanPrice = &price
		changed = true
	}
	if changed {
		return PlanBackfilled
	}
	return PlanUnchanged
}

// RefreshUserPlan loads a user, runs the renewal state machine and persists any
// transition before returning the record. Concurrent reads may both persist;
// they converge to the same state so last-writer-wins is fine.
func RefreshUserPlan(db *sql.DB, userID, email string, limits config.Limits, now time.Time) (*models.User, error) {
	user, err := findUser(db, userID, email)
	if err != nil {
		return nil, err
	}

	change := EvaluatePlanRenewal(user, limits, now)
	if change == PlanUnchanged {
		return user, nil
	}

	_, err = db.Exec(`
		UPDATE users
		SET account_type = $1, plan_status = $2, plan_price = $3,
		    plan_started_at = $4, plan_next_renewal_at = $5
		WHERE id = $6
	`, user.AccountType, nullStr(user.PlanStatus), user.PlanPrice,
		user.PlanStartedAt, user.PlanNextRenewalAt, user.ID)
	if err != nil {
		return nil, storagef("persist plan transition: %v", err)
	}

	if change == PlanExpired {
		go NotifyPlanExpired(user.Email, user.PlanNextRenewalAt)
	}
	return user, nil
}

func findUser(db *sql.DB, userID, email string) (*models.User, error) {
	var u models.User
	var planStatus, name sql.NullString
	var planPrice sql.NullFloat64
	var startedAt, renewalAt sql.NullTime

	query := `
		SELECT id, email, COALESCE(name, ''), account_type, plan_status, plan_price,
		       plan_started_at, plan_next_renewal_at, created_at
		FROM users WHERE `
	var row *sql.Row
	switch {
	case userID != "":
		row = db.QueryRow(query+`id = $1`, userID)
	case email != "":
		row = db.QueryRow(query+`email = $1`, email)
	default:
		return nil, validationf("user_id or email is required")
	}

	err := row.Scan(&u.ID, &u.Email, &name, &u.AccountType, &planStatus, &planPrice,
		&startedAt, &renewalAt, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	} else if err != nil {
		return nil, storagef("load user: %v", err)
	}

	u.Name = name.String
	u.PlanStatus = planStatus.String
	if planPrice.Valid {
		u.PlanPrice = &planPrice.Float64
	}
	if startedAt.Valid {
		u.PlanStartedAt = &startedAt.Time
	}
	if renewalAt.Valid {
		u.PlanNextRenewalAt = &renewalAt.Time
	}
	return &u, nil
}

// GetUser loads a user by id without running the renewal machine. Entitlement
// checks use this to avoid a write path inside every mutation.
func GetUser(db *sql.DB, userID string) (*models.User, error) {
	return findUser(db, userID, "")
}

func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
