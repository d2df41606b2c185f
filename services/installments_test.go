package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/JoelSantos-JS/Alidash-sub006/models"
)

func TestBuildInstallmentInfo_EvenSplit(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	info, err := BuildInstallmentInfo(600, 12, 3, date, nil)
	if err != nil {
		t.Fatalf("BuildInstallmentInfo error = %v", err)
	}
	if info.InstallmentAmount != 50.00 {
		t.Errorf("installmentAmount = %v, want 50.00", info.InstallmentAmount)
	}
	if info.RemainingAmount != 450.00 {
		t.Errorf("remainingAmount = %v, want 450.00", info.RemainingAmount)
	}
	wantDue := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	if info.NextDueDate == nil || !info.NextDueDate.Equal(wantDue) {
		t.Errorf("nextDueDate = %v, want %v", info.NextDueDate, wantDue)
	}
}

func TestBuildInstallmentInfo_ArithmeticInvariant(t *testing.T) {
	cases := []struct {
		total   float64
		count   int
		current int
	}{
		{600, 12, 1},
		{600, 12, 12},
		{100, 3, 1},
		{100, 3, 2},
		{999.99, 7, 4},
		{150.75, 2, 1},
	}
	for _, tc := range cases {
		info, err := BuildInstallmentInfo(tc.total, tc.count, tc.current, time.Now(), nil)
		if err != nil {
			t.Fatalf("BuildInstallmentInfo(%v, %d, %d) error = %v", tc.total, tc.count, tc.current, err)
		}
		if info.RemainingAmount < 0 || info.RemainingAmount > tc.total {
			t.Errorf("remaining %v out of [0, %v]", info.RemainingAmount, tc.total)
		}
		if tc.current < tc.count {
			got := info.RemainingAmount + info.InstallmentAmount*float64(tc.current)
			if math.Abs(got-tc.total) > 0.01 {
				t.Errorf("(%v/%d, current %d): remaining+per*current = %v, want %v ±0.01",
					tc.total, tc.count, tc.current, got, tc.total)
			}
		}
		got := info.InstallmentAmount * float64(tc.count)
		if math.Abs(got-tc.total) > 0.01*float64(tc.count) {
			t.Errorf("per*count = %v, too far from total %v", got, tc.total)
		}
	}
}

func TestBuildInstallmentInfo_FinalInstallmentClampsToZero(t *testing.T) {
	// 100/3 = 33.33 each; 3*33.33 = 99.99, the last installment absorbs the cent.
	info, err := BuildInstallmentInfo(100, 3, 3, time.Now(), nil)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if info.RemainingAmount != 0 {
		t.Errorf("remaining on final installment = %v, want 0", info.RemainingAmount)
	}
}

func TestBuildInstallmentInfo_DueDateOverride(t *testing.T) {
	date := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	override := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)
	info, err := BuildInstallmentInfo(200, 4, 1, date, &override)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if info.NextDueDate == nil || !info.NextDueDate.Equal(override) {
		t.Errorf("nextDueDate = %v, want override %v", info.NextDueDate, override)
	}
}

func TestBuildInstallmentInfo_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		total   float64
		count   int
		current int
	}{
		{"zero installments", 100, 0, 1},
		{"current above count", 100, 3, 4},
		{"current zero", 100, 3, 0},
		{"negative total", -10, 3, 1},
	}
	for _, tc := range cases {
		_, err := BuildInstallmentInfo(tc.total, tc.count, tc.current, time.Now(), nil)
		if err == nil {
			t.Errorf("%s: error = nil, want validation error", tc.name)
			continue
		}
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: error = %v, want ErrValidation", tc.name, err)
		}
	}
}

func installmentTx(total float64, count, current int, remaining float64) models.Transaction {
	return models.Transaction{
		IsInstallment: true,
		InstallmentInfo: &models.InstallmentInfo{
			TotalAmount:        total,
			TotalInstallments:  count,
			CurrentInstallment: current,
			RemainingAmount:    remaining,
		},
	}
}

func TestSummarizeInstallments(t *testing.T) {
	transactions := []models.Transaction{
		// One series of 600 in 12, rows for installments 1 and 2.
		installmentTx(600, 12, 1, 550),
		installmentTx(600, 12, 2, 500),
		// A second series of 300 in 3, only the first row so far.
		installmentTx(300, 3, 1, 200),
		// Non-installment noise is ignored.
		{IsInstallment: false, Amount: 42},
	}

	s := SummarizeInstallments(transactions)
	if s.TotalInstallment != 900 {
		t.Errorf("totalInstallment = %v, want 900 (series counted once)", s.TotalInstallment)
	}
	if s.RemainingToPay != 1250 {
		t.Errorf("remainingToPay = %v, want 1250", s.RemainingToPay)
	}
	if s.AlreadyPaid != 250 {
		t.Errorf("alreadyPaid = %v, want 250", s.AlreadyPaid)
	}
}

func TestSummarizeInstallments_Empty(t *testing.T) {
	s := SummarizeInstallments(nil)
	if s.TotalInstallment != 0 || s.RemainingToPay != 0 || s.AlreadyPaid != 0 {
		t.Errorf("empty summary = %+v, want zeros", s)
	}
}
