package services

import (
	"database/sql"

	"github.com/JoelSantos-JS/Alidash-sub006/models"
)

// ListExpenses returns the user's expense projections, newest first.
func ListExpenses(db *sql.DB, userID string) ([]models.Expense, error) {
	rows, err := db.Query(`
		SELECT id, user_id, transaction_id, description, amount, category, supplier, date, notes, created_at
		FROM expenses WHERE user_id = $1 ORDER BY date DESC
	`, userID)
	if err != nil {
		return nil, storagef("list expenses: %v", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		var txID, supplier, notes sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &txID, &e.Description, &e.Amount,
			&e.Category, &supplier, &e.Date, &notes, &e.CreatedAt); err != nil {
			continue
		}
		if txID.Valid {
			e.TransactionID = &txID.String
		}
		e.Supplier = supplier.String
		e.Notes = notes.String
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// ListRevenues returns the user's revenue projections, newest first.
func ListRevenues(db *sql.DB, userID string) ([]models.Revenue, error) {
	rows, err := db.Query(`
		SELECT id, user_id, transaction_id, description, amount, category, source, date, notes, created_at
		FROM revenues WHERE user_id = $1 ORDER BY date DESC
	`, userID)
	if err != nil {
		return nil, storagef("list revenues: %v", err)
	}
	defer rows.Close()

	revenues := []models.Revenue{}
	for rows.Next() {
		var r models.Revenue
		var txID, source, notes sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &txID, &r.Description, &r.Amount,
			&r.Category, &source, &r.Date, &notes, &r.CreatedAt); err != nil {
			continue
		}
		if txID.Valid {
			r.TransactionID = &txID.String
		}
		r.Source = source.String
		r.Notes = notes.String
		revenues = append(revenues, r)
	}
	return revenues, nil
}
