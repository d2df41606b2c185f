package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JoelSantos-JS/Alidash-sub006/models"
)

// EntryInput carries everything needed to create a ledger entry: the generic
// transaction row plus its revenue/expense projection.
type EntryInput struct {
	UserID        string
	Description   string
	Amount        float64
	Category      string
	Date          time.Time
	PaymentMethod string
	Notes         string
	Counterparty  string // source for revenues, supplier for expenses
	Tags          []string
	IsInstallment bool
	Installment   *models.InstallmentInfo
}

func (in *EntryInput) validate() error {
	if in.UserID == "" {
		return validationf("user_id is required")
	}
	if in.Description == "" {
		return validationf("description is required")
	}
	if in.Amount <= 0 {
		return validationf("amount must be positive, got %v", in.Amount)
	}
	if in.Date.IsZero() {
		return validationf("date is required")
	}
	if in.IsInstallment {
		if err := ValidateInstallmentInfo(in.Installment); err != nil {
			return err
		}
	}
	return nil
}

func projectionTable(kind string) (table, counterpartyCol string, err error) {
	switch kind {
	case models.TypeRevenue:
		return "revenues", "source", nil
	case models.TypeExpense:
		return "expenses", "supplier", nil
	default:
		return "", "", validationf("unknown entry type %q", kind)
	}
}

// CreateEntry inserts the generic transaction row first, then the projection
// row pointing back at it. The hosted store this design targets has no
// multi-table transactions, so a failed projection insert is compensated by
// deleting the transaction row just created. If the compensating delete also
// fails the orphan is logged; there is no reconciliation job.
func CreateEntry(db *sql.DB, kind string, in EntryInput) (*models.Transaction, string, error) {
	if err := in.validate(); err != nil {
		return nil, "", err
	}
	table, counterpartyCol, err := projectionTable(kind)
	if err != nil {
		return nil, "", err
	}

	if in.Category == "" {
		in.Category = "outros"
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}

	tx := models.Transaction{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		Date:            in.Date,
		Description:     in.Description,
		Amount:          in.Amount,
		Type:            kind,
		Category:        in.Category,
		PaymentMethod:   in.PaymentMethod,
		Status:          "completed",
		Notes:           in.Notes,
		IsInstallment:   in.IsInstallment,
		InstallmentInfo: in.Installment,
		Tags:            in.Tags,
	}

	var installmentJSON interface{}
	if tx.InstallmentInfo != nil {
		b, err := json.Marshal(tx.InstallmentInfo)
		if err != nil {
			return nil, "", validationf("encode installment_info: %v", err)
		}
		installmentJSON = b
	}
	tagsJSON, _ := json.Marshal(tx.Tags)

	err = db.QueryRow(`
		INSERT INTO transactions (id, user_id, date, description, amount, type, category,
		                          payment_method, status, notes, is_installment, installment_info, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`, tx.ID, tx.UserID, tx.Date, tx.Description, tx.Amount, tx.Type, tx.Category,
		nullStr(tx.PaymentMethod), tx.Status, nullStr(tx.Notes), tx.IsInstallment,
		installmentJSON, tagsJSON).Scan(&tx.CreatedAt)
	if err != nil {
		return nil, "", storagef("insert transaction: %v", err)
	}

	projectionID := uuid.NewString()
	_, err = db.Exec(fmt.Sprintf(`
		INSERT INTO %s (id, user_id, transaction_id, description, amount, category, %s, date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, table, counterpartyCol), projectionID, tx.UserID, tx.ID, tx.Description, tx.Amount,
		tx.Category, nullStr(in.Counterparty), tx.Date, nullStr(tx.Notes))
	if err != nil {
		// Compensating delete: never leave an orphan transaction behind.
		if _, delErr := db.Exec(`DELETE FROM transactions WHERE id = $1`, tx.ID); delErr != nil {
			fmt.Printf("Compensating delete failed for transaction %s: %v\n", tx.ID, delErr)
		}
		return nil, "", storagef("insert %s projection: %v", kind, err)
	}

	return &tx, projectionID, nil
}

// EntryUpdate carries the mutable fields of a projection row. Shared fields
// (date, description, amount, category, notes) are propagated to the linked
// transaction row; Counterparty stays on the projection only.
type EntryUpdate struct {
	ID           string
	Description  string
	Amount       float64
	Category     string
	Date         time.Time
	Notes        string
	Counterparty string
}

// UpdateEntry mutates a projection row and its linked transaction together.
// Ownership is enforced by the user_id filter on the initial lookup; a row
// belonging to someone else is indistinguishable from a missing row.
func UpdateEntry(db *sql.DB, kind, userID string, upd EntryUpdate) error {
	if upd.ID == "" {
		return validationf("id is required")
	}
	if upd.Description == "" {
		return validationf("description is required")
	}
	if upd.Amount <= 0 {
		return validationf("amount must be positive, got %v", upd.Amount)
	}
	table, counterpartyCol, err := projectionTable(kind)
	if err != nil {
		return err
	}

	var transactionID sql.NullString
	err = db.QueryRow(fmt.Sprintf(`
		SELECT transaction_id FROM %s WHERE id = $1 AND user_id = $2
	`, table), upd.ID, userID).Scan(&transactionID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", ErrNotFound, kind)
	} else if err != nil {
		return storagef("load %s: %v", kind, err)
	}

	dbTx, err := db.Begin()
	if err != nil {
		return storagef("begin: %v", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.Exec(fmt.Sprintf(`
		UPDATE %s
		SET description = $1, amount = $2, category = $3, %s = $4, date = $5, notes = $6
		WHERE id = $7 AND user_id = $8
	`, table, counterpartyCol), upd.Description, upd.Amount, upd.Category,
		nullStr(upd.Counterparty), upd.Date, nullStr(upd.Notes), upd.ID, userID)
	if err != nil {
		return storagef("update %s: %v", kind, err)
	}

	if transactionID.Valid {
		_, err = dbTx.Exec(`
			UPDATE transactions
			SET description = $1, amount = $2, category = $3, date = $4, notes = $5
			WHERE id = $6 AND user_id = $7
		`, upd.Description, upd.Amount, upd.Category, upd.Date, nullStr(upd.Notes),
			transactionID.String, userID)
		if err != nil {
			return storagef("propagate to transaction: %v", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return storagef("commit: %v", err)
	}
	return nil
}

// DeleteEntry removes a projection row. When the row is ledger-linked the
// transaction row is deleted instead and the FK cascade removes the
// projection; the returned flag reports which path ran.
func DeleteEntry(db *sql.DB, kind, userID, id string) (cascade bool, err error) {
	if id == "" {
		return false, validationf("id is required")
	}
	table, _, err := projectionTable(kind)
	if err != nil {
		return false, err
	}

	var transactionID sql.NullString
	err = db.QueryRow(fmt.Sprintf(`
		SELECT transaction_id FROM %s WHERE id = $1 AND user_id = $2
	`, table), id, userID).Scan(&transactionID)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("%w: %s", ErrNotFound, kind)
	} else if err != nil {
		return false, storagef("load %s: %v", kind, err)
	}

	if transactionID.Valid {
		res, err := db.Exec(`DELETE FROM transactions WHERE id = $1 AND user_id = $2`,
			transactionID.String, userID)
		if err != nil {
			return false, storagef("delete transaction: %v", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// Link points at a row that is already gone; fall back to the projection.
			if _, err := db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, table), id, userID); err != nil {
				return false, storagef("delete %s: %v", kind, err)
			}
			return false, nil
		}
		return true, nil
	}

	res, err := db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, table), id, userID)
	if err != nil {
		return false, storagef("delete %s: %v", kind, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, fmt.Errorf("%w: %s", ErrNotFound, kind)
	}
	return false, nil
}
