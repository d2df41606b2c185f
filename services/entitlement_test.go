package services

import (
	"testing"
	"time"

	"github.com/JoelSantos-JS/Alidash-sub006/models"
)

func personalUser(createdAt time.Time) *models.User {
	return &models.User{ID: "u1", AccountType: models.PlanPersonal, CreatedAt: createdAt}
}

func TestCheckTrial_InsideWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	// 4 days 23 hours in: still inside the 5-day window.
	user := personalUser(now.Add(-(4*24 + 23) * time.Hour))

	d := CheckTrial(user, 5*24*time.Hour, now)
	if !d.Allowed {
		t.Errorf("CheckTrial at 4d23h: allowed = false, want true (reason %q)", d.Reason)
	}
}

func TestCheckTrial_Expired(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	user := personalUser(now.Add(-(5*24 + 1) * time.Hour))

	d := CheckTrial(user, 5*24*time.Hour, now)
	if d.Allowed {
		t.Fatal("CheckTrial at 5d1h: allowed = true, want false")
	}
	if d.Reason != DenyTrialExpired {
		t.Errorf("reason = %q, want %q", d.Reason, DenyTrialExpired)
	}
}

func TestCheckTrial_ExactBoundary(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	user := personalUser(now.Add(-5 * 24 * time.Hour))

	// now - startAt >= window denies, so exactly 5 days is already out.
	if d := CheckTrial(user, 5*24*time.Hour, now); d.Allowed {
		t.Error("CheckTrial at exactly 5d: allowed = true, want false")
	}
}

func TestCheckTrial_PlanStartedAtWins(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	user := personalUser(now.Add(-30 * 24 * time.Hour))
	started := now.Add(-24 * time.Hour)
	user.PlanStartedAt = &started

	if d := CheckTrial(user, 5*24*time.Hour, now); !d.Allowed {
		t.Errorf("trial clock should start at plan_started_at, got denied (%q)", d.Reason)
	}
}

func TestCheckTrial_PaidTiersBypass(t *testing.T) {
	now := time.Now()
	for _, tier := range []string{models.PlanBasic, models.PlanPro} {
		user := &models.User{AccountType: tier, CreatedAt: now.Add(-365 * 24 * time.Hour)}
		if d := CheckTrial(user, 5*24*time.Hour, now); !d.Allowed {
			t.Errorf("tier %s: allowed = false, want true", tier)
		}
	}
}

func TestCheckMonthlyQuota(t *testing.T) {
	basic := &models.User{AccountType: models.PlanBasic}

	cases := []struct {
		count   int
		allowed bool
	}{
		{0, true},
		{999, true},
		{1000, false},
		{1500, false},
	}
	for _, tc := range cases {
		d := CheckMonthlyQuota(basic, tc.count, 1000)
		if d.Allowed != tc.allowed {
			t.Errorf("CheckMonthlyQuota(count=%d) allowed = %v, want %v", tc.count, d.Allowed, tc.allowed)
		}
		if !tc.allowed && d.Reason != DenyMonthlyLimitReached {
			t.Errorf("count=%d: reason = %q, want %q", tc.count, d.Reason, DenyMonthlyLimitReached)
		}
	}
}

func TestCheckMonthlyQuota_OtherTiersBypass(t *testing.T) {
	for _, tier := range []string{models.PlanPersonal, models.PlanPro} {
		user := &models.User{AccountType: tier}
		if d := CheckMonthlyQuota(user, 5000, 1000); !d.Allowed {
			t.Errorf("tier %s: allowed = false, want true", tier)
		}
	}
}
