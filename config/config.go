package config

import (
	"os"
	"strconv"
	"time"
)

type Features struct {
	AuthEnabled          bool
	BillingEnabled       bool
	NotificationsEnabled bool
}

func LoadFeatures() Features {
	return Features{
		AuthEnabled:          os.Getenv("AUTH_ENABLED") == "true",
		BillingEnabled:       os.Getenv("BILLING_ENABLED") == "true",
		NotificationsEnabled: os.Getenv("NOTIFICATIONS_ENABLED") == "true",
	}
}

// Limits holds the named entitlement tunables. Two different trial windows
// exist on purpose: debts historically got 5 days, transactions 3. Keep them
// as separate config values until product settles on one.
type Limits struct {
	TrialWindowDebts        time.Duration
	TrialWindowTransactions time.Duration
	RenewalGrace            time.Duration
	BasicMonthlyTxLimit     int
	PlanCycle               time.Duration
}

func LoadLimits() Limits {
	return Limits{
		TrialWindowDebts:        time.Duration(envInt("TRIAL_WINDOW_DEBTS_DAYS", 5)) * 24 * time.Hour,
		TrialWindowTransactions: time.Duration(envInt("TRIAL_WINDOW_TRANSACTIONS_DAYS", 3)) * 24 * time.Hour,
		RenewalGrace:            time.Duration(envInt("RENEWAL_GRACE_DAYS", 2)) * 24 * time.Hour,
		BasicMonthlyTxLimit:     envInt("BASIC_MONTHLY_TX_LIMIT", 1000),
		PlanCycle:               time.Duration(envInt("PLAN_CYCLE_DAYS", 30)) * 24 * time.Hour,
	}
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
