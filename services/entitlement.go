package services

import (
	"database/sql"
	"time"

	"github.com/JoelSantos-JS/Alidash-sub006/models"
)

const (
	DenyTrialExpired        = "trial_expired"
	DenyMonthlyLimitReached = "monthly_limit_reached"
)

// Decision is the outcome of an entitlement check. Reason is a stable
// machine-readable string surfaced verbatim in 403 responses.
type Decision struct {
	Allowed bool
	Reason  string
}

var allow = Decision{Allowed: true}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CheckTrial applies the free-trial window to personal-tier users. Paid tiers
// bypass it. The trial clock starts at plan_started_at when set, otherwise at
// account creation.
func CheckTrial(user *models.User, window time.Duration, now time.Time) Decision {
	if user.AccountType != models.PlanPersonal {
		return allow
	}
	startAt := user.CreatedAt
	if user.PlanStartedAt != nil {
		startAt = *user.PlanStartedAt
	}
	if now.Sub(startAt) >= window {
		return deny(DenyTrialExpired)
	}
	return allow
}

// CheckMonthlyQuota applies the basic-tier transaction cap. count is the number
// of transactions already recorded this calendar month.
func CheckMonthlyQuota(user *models.User, count, limit int) Decision {
	if user.AccountType != models.PlanBasic {
		return allow
	}
	if count >= limit {
		return deny(DenyMonthlyLimitReached)
	}
	return allow
}

// CountTransactionsInMonth counts a user's transactions whose date falls in the
// calendar month containing now, bounds inclusive.
func CountTransactionsInMonth(db *sql.DB, userID string, now time.Time) (int, error) {
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	endOfMonth := startOfMonth.AddDate(0, 1, 0).Add(-time.Nanosecond)

	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
	`, userID, startOfMonth, endOfMonth).Scan(&count)
	if err != nil {
		return 0, storagef("count transactions: %v", err)
	}
	return count, nil
}
