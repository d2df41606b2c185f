package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoelSantos-JS/Alidash-sub006/config"
	"github.com/JoelSantos-JS/Alidash-sub006/db"
	"github.com/JoelSantos-JS/Alidash-sub006/models"
	"github.com/JoelSantos-JS/Alidash-sub006/services"
)

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// allowWrite runs the entitlement gate for a mutating request. It answers the
// request itself on denial and reports whether the caller may proceed.
func allowWrite(c *gin.Context, userID, resource string) bool {
	limits := config.LoadLimits()
	now := time.Now()

	user, err := services.GetUser(db.GetDB(), userID)
	if err != nil {
		respondError(c, err)
		return false
	}

	window := limits.TrialWindowTransactions
	if resource == "debts" {
		window = limits.TrialWindowDebts
	}
	if d := services.CheckTrial(user, window, now); !d.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": d.Reason})
		return false
	}

	if resource == "transactions" {
		count, err := services.CountTransactionsInMonth(db.GetDB(), userID, now)
		if err != nil {
			respondError(c, err)
			return false
		}
		if d := services.CheckMonthlyQuota(user, count, limits.BasicMonthlyTxLimit); !d.Allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": d.Reason})
			return false
		}
	}
	return true
}

type entryRequest struct {
	Description   string   `json:"description"`
	Amount        float64  `json:"amount"`
	Category      string   `json:"category"`
	Date          string   `json:"date"`
	PaymentMethod string   `json:"payment_method"`
	Notes         string   `json:"notes"`
	Source        string   `json:"source"`
	Supplier      string   `json:"supplier"`
	Tags          []string `json:"tags"`
	IsInstallment bool     `json:"is_installment"`
	Installment   *struct {
		TotalAmount        float64 `json:"totalAmount"`
		TotalInstallments  int     `json:"totalInstallments"`
		CurrentInstallment int     `json:"currentInstallment"`
		NextDueDate        string  `json:"nextDueDate"`
	} `json:"installment_info"`
}

func (req *entryRequest) counterparty(kind string) string {
	if kind == models.TypeRevenue {
		return req.Source
	}
	return req.Supplier
}

func createEntry(c *gin.Context, kind string) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if req.Description == "" || req.Amount <= 0 || req.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description, amount and date are required"})
		return
	}
	date, ok := parseDate(req.Date)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	if !allowWrite(c, userID, "transactions") {
		return
	}

	var installment *models.InstallmentInfo
	if req.IsInstallment {
		if req.Installment == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "installment_info is required when is_installment is true"})
			return
		}
		var override *time.Time
		if req.Installment.NextDueDate != "" {
			if t, ok := parseDate(req.Installment.NextDueDate); ok {
				override = &t
			}
		}
		info, err := services.BuildInstallmentInfo(req.Installment.TotalAmount,
			req.Installment.TotalInstallments, req.Installment.CurrentInstallment, date, override)
		if err != nil {
			respondError(c, err)
			return
		}
		installment = info
	}

	tx, projectionID, err := services.CreateEntry(db.GetDB(), kind, services.EntryInput{
		UserID:        userID,
		Description:   req.Description,
		Amount:        req.Amount,
		Category:      req.Category,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Counterparty:  req.counterparty(kind),
		Tags:          req.Tags,
		IsInstallment: req.IsInstallment,
		Installment:   installment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	projection := gin.H{
		"id":             projectionID,
		"user_id":        userID,
		"transaction_id": tx.ID,
		"description":    tx.Description,
		"amount":         tx.Amount,
		"category":       tx.Category,
		"date":           tx.Date,
		"notes":          tx.Notes,
	}
	key := "expense"
	if kind == models.TypeRevenue {
		key = "revenue"
		projection["source"] = req.Source
	} else {
		projection["supplier"] = req.Supplier
	}

	c.JSON(http.StatusOK, gin.H{"success": true, key: projection, "transaction": tx})
}

type entryUpdateRequest struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Notes       string  `json:"notes"`
	Source      string  `json:"source"`
	Supplier    string  `json:"supplier"`
}

func updateEntry(c *gin.Context, kind string) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req entryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	date, ok := parseDate(req.Date)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	counterparty := req.Supplier
	if kind == models.TypeRevenue {
		counterparty = req.Source
	}
	err := services.UpdateEntry(db.GetDB(), kind, userID, services.EntryUpdate{
		ID:           req.ID,
		Description:  req.Description,
		Amount:       req.Amount,
		Category:     req.Category,
		Date:         date,
		Notes:        req.Notes,
		Counterparty: counterparty,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	key := "expense"
	if kind == models.TypeRevenue {
		key = "revenue"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, key: gin.H{
		"id":          req.ID,
		"description": req.Description,
		"amount":      req.Amount,
		"category":    req.Category,
		"date":        date,
	}})
}

func deleteEntry(c *gin.Context, kind string) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	cascade, err := services.DeleteEntry(db.GetDB(), kind, userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": true, "cascade": cascade})
}

func CreateExpense(c *gin.Context) { createEntry(c, models.TypeExpense) }
func UpdateExpense(c *gin.Context) { updateEntry(c, models.TypeExpense) }
func DeleteExpense(c *gin.Context) { deleteEntry(c, models.TypeExpense) }

func CreateRevenue(c *gin.Context) { createEntry(c, models.TypeRevenue) }
func UpdateRevenue(c *gin.Context) { updateEntry(c, models.TypeRevenue) }
func DeleteRevenue(c *gin.Context) { deleteEntry(c, models.TypeRevenue) }

func GetExpenses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	expenses, err := services.ListExpenses(db.GetDB(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "expenses": expenses})
}

func GetRevenues(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	revenues, err := services.ListRevenues(db.GetDB(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "revenues": revenues})
}
