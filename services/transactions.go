package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JoelSantos-JS/Alidash-sub006/models"
)

func scanTransaction(scan func(dest ...interface{}) error) (*models.Transaction, error) {
	var tx models.Transaction
	var paymentMethod, notes sql.NullString
	var installmentRaw, tagsRaw []byte

	err := scan(&tx.ID, &tx.UserID, &tx.Date, &tx.Description, &tx.Amount, &tx.Type,
		&tx.Category, &paymentMethod, &tx.Status, &notes, &tx.IsInstallment,
		&installmentRaw, &tagsRaw, &tx.CreatedAt)
	if err != nil {
		return nil, err
	}

	tx.PaymentMethod = paymentMethod.String
	tx.Notes = notes.String
	if len(installmentRaw) > 0 {
		var info models.InstallmentInfo
		if err := json.Unmarshal(installmentRaw, &info); err == nil {
			tx.InstallmentInfo = &info
		}
	}
	if len(tagsRaw) > 0 {
		_ = json.Unmarshal(tagsRaw, &tx.Tags)
	}
	if tx.Tags == nil {
		tx.Tags = []string{}
	}
	return &tx, nil
}

const transactionCols = `id, user_id, date, description, amount, type, category,
	payment_method, status, notes, is_installment, installment_info, tags, created_at`

// GetTransaction loads one transaction owned by the user.
func GetTransaction(db *sql.DB, userID, id string) (*models.Transaction, error) {
	row := db.QueryRow(`
		SELECT `+transactionCols+` FROM transactions WHERE id = $1 AND user_id = $2
	`, id, userID)
	tx, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: transaction", ErrNotFound)
	} else if err != nil {
		return nil, storagef("load transaction: %v", err)
	}
	return tx, nil
}

// ListTransactions returns all transactions of a user, newest first.
func ListTransactions(db *sql.DB, userID string) ([]models.Transaction, error) {
	rows, err := db.Query(`
		SELECT `+transactionCols+` FROM transactions WHERE user_id = $1 ORDER BY date DESC
	`, userID)
	if err != nil {
		return nil, storagef("list transactions: %v", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			continue
		}
		transactions = append(transactions, *tx)
	}
	return transactions, nil
}

// ListInstallmentTransactions returns the installment-flagged rows feeding the
// read-side summary.
func ListInstallmentTransactions(db *sql.DB, userID string) ([]models.Transaction, error) {
	rows, err := db.Query(`
		SELECT `+transactionCols+` FROM transactions
		WHERE user_id = $1 AND is_installment = TRUE ORDER BY date DESC
	`, userID)
	if err != nil {
		return nil, storagef("list installment transactions: %v", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			continue
		}
		transactions = append(transactions, *tx)
	}
	return transactions, nil
}

// TransactionUpdate carries the mutable fields of a transaction row.
type TransactionUpdate struct {
	ID            string
	Date          time.Time
	Description   string
	Amount        float64
	Category      string
	PaymentMethod string
	Status        string
	Notes         string
	Tags          []string
	IsInstallment bool
	Installment   *models.InstallmentInfo
}

// UpdateTransaction mutates a transaction row and propagates the shared fields
// to its projection when one is linked, in a single database transaction.
func UpdateTransaction(db *sql.DB, userID string, upd TransactionUpdate) (*models.Transaction, error) {
	if upd.ID == "" {
		return nil, validationf("transaction id is required")
	}
	if upd.Amount <= 0 {
		return nil, validationf("amount must be positive, got %v", upd.Amount)
	}
	if upd.IsInstallment {
		if err := ValidateInstallmentInfo(upd.Installment); err != nil {
			return nil, err
		}
	}

	current, err := GetTransaction(db, userID, upd.ID)
	if err != nil {
		return nil, err
	}

	var installmentJSON interface{}
	if upd.Installment != nil {
		b, err := json.Marshal(upd.Installment)
		if err != nil {
			return nil, validationf("encode installment_info: %v", err)
		}
		installmentJSON = b
	}
	if upd.Tags == nil {
		upd.Tags = []string{}
	}
	tagsJSON, _ := json.Marshal(upd.Tags)
	if upd.Status == "" {
		upd.Status = current.Status
	}

	dbTx, err := db.Begin()
	if err != nil {
		return nil, storagef("begin: %v", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.Exec(`
		UPDATE transactions
		SET date = $1, description = $2, amount = $3, category = $4, payment_method = $5,
		    status = $6, notes = $7, is_installment = $8, installment_info = $9, tags = $10
		WHERE id = $11 AND user_id = $12
	`, upd.Date, upd.Description, upd.Amount, upd.Category, nullStr(upd.PaymentMethod),
		upd.Status, nullStr(upd.Notes), upd.IsInstallment, installmentJSON, tagsJSON,
		upd.ID, userID)
	if err != nil {
		return nil, storagef("update transaction: %v", err)
	}

	// Keep the projection row in step with the transaction.
	table, _, err := projectionTable(current.Type)
	if err == nil {
		_, err = dbTx.Exec(fmt.Sprintf(`
			UPDATE %s
			SET description = $1, amount = $2, category = $3, date = $4, notes = $5
			WHERE transaction_id = $6 AND user_id = $7
		`, table), upd.Description, upd.Amount, upd.Category, upd.Date,
			nullStr(upd.Notes), upd.ID, userID)
		if err != nil {
			return nil, storagef("propagate to %s: %v", table, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return nil, storagef("commit: %v", err)
	}

	return GetTransaction(db, userID, upd.ID)
}

// DeleteTransaction removes a transaction row; the FK cascade removes any
// linked projection in the same statement.
func DeleteTransaction(db *sql.DB, userID, id string) error {
	if id == "" {
		return validationf("transaction id is required")
	}
	res, err := db.Exec(`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return storagef("delete transaction: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: transaction", ErrNotFound)
	}
	return nil
}
