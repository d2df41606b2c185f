package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoelSantos-JS/Alidash-sub006/db"
)

// Read-only overview stats for the dashboard.
func GetStatsOverview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	var stats struct {
		TotalTransactions int     `json:"total_transactions"`
		TotalRevenues     float64 `json:"total_revenues"`
		TotalExpenses     float64 `json:"total_expenses"`
		Balance           float64 `json:"balance"`
		ActiveDebts       int     `json:"active_debts"`
		DebtOutstanding   float64 `json:"debt_outstanding"`
		MonthTransactions int     `json:"month_transactions"`
	}

	dbConn := db.GetDB()

	_ = dbConn.QueryRow("SELECT COUNT(*) FROM transactions WHERE user_id = $1", userID).Scan(&stats.TotalTransactions)

	// Sums come back NULL when a user has no rows yet.
	var revSum, expSum, debtSum *float64
	_ = dbConn.QueryRow("SELECT SUM(amount) FROM revenues WHERE user_id = $1", userID).Scan(&revSum)
	_ = dbConn.QueryRow("SELECT SUM(amount) FROM expenses WHERE user_id = $1", userID).Scan(&expSum)
	_ = dbConn.QueryRow("SELECT SUM(current_amount) FROM debts WHERE user_id = $1 AND status = 'active'", userID).Scan(&debtSum)
	if revSum != nil {
		stats.TotalRevenues = *revSum
	}
	if expSum != nil {
		stats.TotalExpenses = *expSum
	}
	if debtSum != nil {
		stats.DebtOutstanding = *debtSum
	}
	stats.Balance = stats.TotalRevenues - stats.TotalExpenses

	_ = dbConn.QueryRow("SELECT COUNT(*) FROM debts WHERE user_id = $1 AND status = 'active'", userID).Scan(&stats.ActiveDebts)

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	_ = dbConn.QueryRow("SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND date >= $2", userID, startOfMonth).Scan(&stats.MonthTransactions)

	c.JSON(http.StatusOK, stats)
}
