package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/JoelSantos-JS/Alidash-sub006/models"
)

// DebtInput carries the fields for creating or updating a debt.
type DebtInput struct {
	CreditorName   string
	OriginalAmount float64
	CurrentAmount  float64
	InterestRate   *float64
	DueDate        time.Time
	Status         string
	Category       string
	Priority       string
	PaymentMethod  string
	Notes          string
	Installments   *models.DebtInstallments
}

func (in *DebtInput) validate() error {
	if in.CreditorName == "" {
		return validationf("creditor_name is required")
	}
	if in.OriginalAmount <= 0 {
		return validationf("original_amount must be positive, got %v", in.OriginalAmount)
	}
	if in.CurrentAmount < 0 || in.CurrentAmount > in.OriginalAmount {
		return validationf("current_amount must be between 0 and original_amount")
	}
	if in.DueDate.IsZero() {
		return validationf("due_date is required")
	}
	return nil
}

func debtInstallmentsJSON(inst *models.DebtInstallments) (interface{}, error) {
	if inst == nil {
		return nil, nil
	}
	b, err := json.Marshal(inst)
	if err != nil {
		return nil, validationf("encode installments: %v", err)
	}
	return b, nil
}

// CreateDebt inserts a debt row for the user.
func CreateDebt(db *sql.DB, userID string, in DebtInput) (*models.Debt, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = "active"
	}
	if in.Category == "" {
		in.Category = "outros"
	}
	if in.Priority == "" {
		in.Priority = "media"
	}
	instJSON, err := debtInstallmentsJSON(in.Installments)
	if err != nil {
		return nil, err
	}

	d := models.Debt{
		ID:             uuid.NewString(),
		UserID:         userID,
		CreditorName:   in.CreditorName,
		OriginalAmount: in.OriginalAmount,
		CurrentAmount:  in.CurrentAmount,
		InterestRate:   in.InterestRate,
		DueDate:        in.DueDate,
		Status:         in.Status,
		Category:       in.Category,
		Priority:       in.Priority,
		PaymentMethod:  in.PaymentMethod,
		Notes:          in.Notes,
		Installments:   in.Installments,
		Payments:       []models.DebtPayment{},
	}

	err = db.QueryRow(`
		INSERT INTO debts (id, user_id, creditor_name, original_amount, current_amount,
		                   interest_rate, due_date, status, category, priority,
		                   payment_method, notes, installments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`, d.ID, d.UserID, d.CreditorName, d.OriginalAmount, d.CurrentAmount, d.InterestRate,
		d.DueDate, d.Status, d.Category, d.Priority, nullStr(d.PaymentMethod),
		nullStr(d.Notes), instJSON).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, storagef("insert debt: %v", err)
	}
	return &d, nil
}

// ListDebts returns the user's debts with their payment histories attached.
// Every debt carries a non-nil payments slice so callers can iterate blindly.
func ListDebts(db *sql.DB, userID string) ([]models.Debt, error) {
	rows, err := db.Query(`
		SELECT id, user_id, creditor_name, original_amount, current_amount, interest_rate,
		       due_date, status, category, priority, payment_method, notes, installments,
		       created_at, updated_at
		FROM debts WHERE user_id = $1 ORDER BY due_date ASC
	`, userID)
	if err != nil {
		return nil, storagef("list debts: %v", err)
	}
	defer rows.Close()

	debts := []models.Debt{}
	ids := []string{}
	for rows.Next() {
		var d models.Debt
		var interestRate sql.NullFloat64
		var paymentMethod, notes sql.NullString
		var instRaw []byte
		if err := rows.Scan(&d.ID, &d.UserID, &d.CreditorName, &d.OriginalAmount,
			&d.CurrentAmount, &interestRate, &d.DueDate, &d.Status, &d.Category,
			&d.Priority, &paymentMethod, &notes, &instRaw, &d.CreatedAt, &d.UpdatedAt); err != nil {
			continue
		}
		if interestRate.Valid {
			d.InterestRate = &interestRate.Float64
		}
		d.PaymentMethod = paymentMethod.String
		d.Notes = notes.String
		if len(instRaw) > 0 {
			var inst models.DebtInstallments
			if err := json.Unmarshal(instRaw, &inst); err == nil {
				d.Installments = &inst
			}
		}
		d.Payments = []models.DebtPayment{}
		debts = append(debts, d)
		ids = append(ids, d.ID)
	}

	if len(ids) == 0 {
		return debts, nil
	}

	grouped, err := ListPaymentsByDebt(db, ids)
	if err != nil {
		return nil, err
	}
	for i := range debts {
		if p, ok := grouped[debts[i].ID]; ok {
			debts[i].Payments = p
		}
	}
	return debts, nil
}

// UpdateDebt replaces the mutable fields of a debt owned by the user.
func UpdateDebt(db *sql.DB, userID, id string, in DebtInput) error {
	if id == "" {
		return validationf("debt id is required")
	}
	if err := in.validate(); err != nil {
		return err
	}
	instJSON, err := debtInstallmentsJSON(in.Installments)
	if err != nil {
		return err
	}

	res, err := db.Exec(`
		UPDATE debts
		SET creditor_name = $1, original_amount = $2, current_amount = $3, interest_rate = $4,
		    due_date = $5, status = $6, category = $7, priority = $8, payment_method = $9,
		    notes = $10, installments = $11, updated_at = NOW()
		WHERE id = $12 AND user_id = $13
	`, in.CreditorName, in.OriginalAmount, in.CurrentAmount, in.InterestRate, in.DueDate,
		in.Status, in.Category, in.Priority, nullStr(in.PaymentMethod), nullStr(in.Notes),
		instJSON, id, userID)
	if err != nil {
		return storagef("update debt: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: debt", ErrNotFound)
	}
	return nil
}

// DeleteDebt removes a debt; the FK cascade removes its payment history.
func DeleteDebt(db *sql.DB, userID, id string) error {
	if id == "" {
		return validationf("debt id is required")
	}
	res, err := db.Exec(`DELETE FROM debts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return storagef("delete debt: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: debt", ErrNotFound)
	}
	return nil
}

// RecordPayment appends a payment to a debt's history. It deliberately does
// NOT touch the debt's current_amount; balance mutation is a separate explicit
// call (UpdateDebtBalance) so history and balance stay two distinct steps.
func RecordPayment(db *sql.DB, userID, debtID string, date time.Time, amount float64, method, notes string) (*models.DebtPayment, error) {
	if debtID == "" {
		return nil, validationf("debt_id is required")
	}
	if amount <= 0 {
		return nil, validationf("amount must be positive, got %v", amount)
	}
	if date.IsZero() {
		date = time.Now()
	}

	// Ownership check before touching the payment table.
	var exists int
	err := db.QueryRow(`SELECT 1 FROM debts WHERE id = $1 AND user_id = $2`, debtID, userID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: debt", ErrNotFound)
	} else if err != nil {
		return nil, storagef("load debt: %v", err)
	}

	p := models.DebtPayment{
		ID:            uuid.NewString(),
		DebtID:        debtID,
		Date:          date,
		Amount:        amount,
		PaymentMethod: method,
		Notes:         notes,
	}
	err = db.QueryRow(`
		INSERT INTO debt_payments (id, debt_id, date, amount, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, p.ID, p.DebtID, p.Date, p.Amount, nullStr(p.PaymentMethod), nullStr(p.Notes)).Scan(&p.CreatedAt)
	if err != nil {
		return nil, storagef("insert payment: %v", err)
	}
	return &p, nil
}

// UpdateDebtBalance sets a debt's current_amount. Paired with RecordPayment by
// the caller; skipping it leaves the balance untouched on purpose.
func UpdateDebtBalance(db *sql.DB, userID, debtID string, currentAmount float64) error {
	if currentAmount < 0 {
		return validationf("current_amount cannot be negative")
	}

	var originalAmount float64
	err := db.QueryRow(`SELECT original_amount FROM debts WHERE id = $1 AND user_id = $2`,
		debtID, userID).Scan(&originalAmount)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: debt", ErrNotFound)
	} else if err != nil {
		return storagef("load debt: %v", err)
	}
	if currentAmount > originalAmount {
		return validationf("current_amount %v cannot exceed original_amount %v", currentAmount, originalAmount)
	}

	res, err := db.Exec(`
		UPDATE debts SET current_amount = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, currentAmount, debtID, userID)
	if err != nil {
		return storagef("update debt balance: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: debt", ErrNotFound)
	}
	return nil
}

// ListPaymentsByDebt batch-fetches payments for a set of debts, newest first,
// grouped by debt id.
func ListPaymentsByDebt(db *sql.DB, debtIDs []string) (map[string][]models.DebtPayment, error) {
	grouped := map[string][]models.DebtPayment{}
	if len(debtIDs) == 0 {
		return grouped, nil
	}

	rows, err := db.Query(`
		SELECT id, debt_id, date, amount, payment_method, notes, created_at
		FROM debt_payments
		WHERE debt_id = ANY($1::uuid[])
		ORDER BY date DESC
	`, pq.Array(debtIDs))
	if err != nil {
		return nil, storagef("list payments: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.DebtPayment
		var method, notes sql.NullString
		if err := rows.Scan(&p.ID, &p.DebtID, &p.Date, &p.Amount, &method, &notes, &p.CreatedAt); err != nil {
			continue
		}
		p.PaymentMethod = method.String
		p.Notes = notes.String
		grouped[p.DebtID] = append(grouped[p.DebtID], p)
	}
	return grouped, nil
}

// GroupPayments splits a flat, date-descending payment list by debt id,
// preserving order. ListDebts uses the SQL path; this is the pure core.
func GroupPayments(payments []models.DebtPayment) map[string][]models.DebtPayment {
	grouped := map[string][]models.DebtPayment{}
	for _, p := range payments {
		grouped[p.DebtID] = append(grouped[p.DebtID], p)
	}
	return grouped
}
