package services

import (
	"testing"
	"time"

	"github.com/JoelSantos-JS/Alidash-sub006/config"
	"github.com/JoelSantos-JS/Alidash-sub006/models"
)

func testLimits() config.Limits {
	return config.Limits{
		RenewalGrace: 2 * 24 * time.Hour,
		PlanCycle:    30 * 24 * time.Hour,
	}
}

func TestEvaluatePlanRenewal_ExpiresPastGrace(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	renewal := now.Add(-3 * 24 * time.Hour) // past the 2-day grace
	price := PricePro
	user := &models.User{
		AccountType:       models.PlanPro,
		PlanStatus:        models.PlanStatusActive,
		PlanPrice:         &price,
		PlanNextRenewalAt: &renewal,
	}

	change := EvaluatePlanRenewal(user, testLimits(), now)
	if change != PlanExpired {
		t.Fatalf("change = %v, want PlanExpired", change)
	}
	if user.AccountType != models.PlanPersonal {
		t.Errorf("account_type = %q, want personal", user.AccountType)
	}
	if user.PlanStatus != models.PlanStatusExpired {
		t.Errorf("plan_status = %q, want expired", user.PlanStatus)
	}
	if user.PlanPrice != nil {
		t.Errorf("plan_price = %v, want nil", *user.PlanPrice)
	}
}

func TestEvaluatePlanRenewal_Idempotent(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	renewal := now.Add(-10 * 24 * time.Hour)
	user := &models.User{
		AccountType:       models.PlanBasic,
		PlanNextRenewalAt: &renewal,
	}

	if change := EvaluatePlanRenewal(user, testLimits(), now); change != PlanExpired {
		t.Fatalf("first read: change = %v, want PlanExpired", change)
	}
	// Second read of the now-personal user must not mutate anything further.
	if change := EvaluatePlanRenewal(user, testLimits(), now); change != PlanUnchanged {
		t.Errorf("second read: change = %v, want PlanUnchanged", change)
	}
	if user.AccountType != models.PlanPersonal || user.PlanStatus != models.PlanStatusExpired {
		t.Errorf("state drifted on second read: %q/%q", user.AccountType, user.PlanStatus)
	}
}

func TestEvaluatePlanRenewal_WithinGraceStaysPaid(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	renewal := now.Add(-24 * time.Hour) // lapsed but inside grace
	started := now.Add(-31 * 24 * time.Hour)
	price := PriceBasic
	user := &models.User{
		AccountType:       models.PlanBasic,
		PlanStatus:        models.PlanStatusActive,
		PlanPrice:         &price,
		PlanStartedAt:     &started,
		PlanNextRenewalAt: &renewal,
	}

	if change := EvaluatePlanRenewal(user, testLimits(), now); change != PlanUnchanged {
		t.Errorf("change = %v, want PlanUnchanged inside grace", change)
	}
	if user.AccountType != models.PlanBasic {
		t.Errorf("account_type = %q, want basic", user.AccountType)
	}
}

func TestEvaluatePlanRenewal_BackfillsMissingMetadata(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	user := &models.User{AccountType: models.PlanPro}

	change := EvaluatePlanRenewal(user, testLimits(), now)
	if change != PlanBackfilled {
		t.Fatalf("change = %v, want PlanBackfilled", change)
	}
	if user.PlanStartedAt == nil || !user.PlanStartedAt.Equal(now) {
		t.Errorf("plan_started_at = %v, want %v", user.PlanStartedAt, now)
	}
	wantRenewal := now.Add(30 * 24 * time.Hour)
	if user.PlanNextRenewalAt == nil || !user.PlanNextRenewalAt.Equal(wantRenewal) {
		t.Errorf("plan_next_renewal_at = %v, want %v", user.PlanNextRenewalAt, wantRenewal)
	}
	if user.PlanStatus != models.PlanStatusActive {
		t.Errorf("plan_status = %q, want active", user.PlanStatus)
	}
	if user.PlanPrice == nil || *user.PlanPrice != PricePro {
		t.Errorf("plan_price = %v, want %v", user.PlanPrice, PricePro)
	}
}

func TestEvaluatePlanRenewal_NeverOverwritesFutureRenewal(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	renewal := now.Add(10 * 24 * time.Hour)
	user := &models.User{
		AccountType:       models.PlanBasic,
		PlanNextRenewalAt: &renewal,
	}

	if change := EvaluatePlanRenewal(user, testLimits(), now); change != PlanBackfilled {
		t.Fatalf("change = %v, want PlanBackfilled (status/price missing)", change)
	}
	if !user.PlanNextRenewalAt.Equal(renewal) {
		t.Errorf("valid future renewal was overwritten: %v", user.PlanNextRenewalAt)
	}
}

func TestEvaluatePlanRenewal_FreeTierUntouched(t *testing.T) {
	user := &models.User{AccountType: models.PlanPersonal}
	if change := EvaluatePlanRenewal(user, testLimits(), time.Now()); change != PlanUnchanged {
		t.Errorf("change = %v, want PlanUnchanged for personal tier", change)
	}
}

func TestPlanPrice(t *testing.T) {
	cases := []struct {
		tier string
		want float64
	}{
		{models.PlanBasic, PriceBasic},
		{models.PlanPro, PricePro},
		{models.PlanPersonal, 0},
		{"unknown", 0},
	}
	for _, tc := range cases {
		if got := PlanPrice(tc.tier); got != tc.want {
			t.Errorf("PlanPrice(%q) = %v, want %v", tc.tier, got, tc.want)
		}
	}
}
