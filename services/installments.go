package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/JoelSantos-JS/Alidash-sub006/models"
)

// BuildInstallmentInfo derives the installment block for a transaction. The
// per-installment amount is the total split evenly and rounded to cents; the
// final installment absorbs the rounding remainder so remaining never goes
// negative. nextDueDate lands one calendar month after the transaction date
// unless the caller supplies an override.
func BuildInstallmentInfo(totalAmount float64, totalInstallments, currentInstallment int, txDate time.Time, dueDateOverride *time.Time) (*models.InstallmentInfo, error) {
	if totalAmount <= 0 {
		return nil, validationf("totalAmount must be positive, got %v", totalAmount)
	}
	if totalInstallments < 1 {
		return nil, validationf("totalInstallments must be at least 1, got %d", totalInstallments)
	}
	if currentInstallment < 1 || currentInstallment > totalInstallments {
		return nil, validationf("currentInstallment %d out of range 1..%d", currentInstallment, totalInstallments)
	}

	total := decimal.NewFromFloat(totalAmount)
	per := total.Div(decimal.NewFromInt(int64(totalInstallments))).Round(2)
	remaining := total.Sub(per.Mul(decimal.NewFromInt(int64(currentInstallment))))
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	if currentInstallment == totalInstallments {
		remaining = decimal.Zero
	}

	nextDue := txDate.AddDate(0, 1, 0)
	if dueDateOverride != nil {
		nextDue = *dueDateOverride
	}

	perF, _ := per.Float64()
	remF, _ := remaining.Float64()
	return &models.InstallmentInfo{
		TotalAmount:        totalAmount,
		TotalInstallments:  totalInstallments,
		CurrentInstallment: currentInstallment,
		InstallmentAmount:  perF,
		RemainingAmount:    remF,
		NextDueDate:        &nextDue,
	}, nil
}

// ValidateInstallmentInfo checks a caller-supplied block before it is stored.
func ValidateInstallmentInfo(info *models.InstallmentInfo) error {
	if info == nil {
		return validationf("installment_info is required when is_installment is true")
	}
	if info.TotalAmount <= 0 {
		return validationf("installment totalAmount must be positive")
	}
	if info.TotalInstallments < 1 {
		return validationf("totalInstallments must be at least 1, got %d", info.TotalInstallments)
	}
	if info.CurrentInstallment < 1 || info.CurrentInstallment > info.TotalInstallments {
		return validationf("currentInstallment %d out of range 1..%d", info.CurrentInstallment, info.TotalInstallments)
	}
	return nil
}

// SummarizeInstallments aggregates the installment-flagged transactions of a
// user. A purchase paid in N installments appears as N rows sharing the same
// totalAmount, so the series total is only counted on the first installment.
func SummarizeInstallments(transactions []models.Transaction) models.InstallmentSummary {
	total := decimal.Zero
	remaining := decimal.Zero
	paid := decimal.Zero

	for _, tx := range transactions {
		if !tx.IsInstallment || tx.InstallmentInfo == nil {
			continue
		}
		info := tx.InstallmentInfo
		t := decimal.NewFromFloat(info.TotalAmount)
		r := decimal.NewFromFloat(info.RemainingAmount)
		if info.CurrentInstallment == 1 {
			total = total.Add(t)
		}
		remaining = remaining.Add(r)
		paid = paid.Add(t.Sub(r))
	}

	totalF, _ := total.Float64()
	remF, _ := remaining.Float64()
	paidF, _ := paid.Float64()
	return models.InstallmentSummary{
		TotalInstallment: totalF,
		RemainingToPay:   remF,
		AlreadyPaid:      paidF,
	}
}
