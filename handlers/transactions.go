package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoelSantos-JS/Alidash-sub006/db"
	"github.com/JoelSantos-JS/Alidash-sub006/models"
	"github.com/JoelSantos-JS/Alidash-sub006/services"
)

type transactionPayload struct {
	ID            string   `json:"id"`
	Date          string   `json:"date"`
	Description   string   `json:"description"`
	Amount        float64  `json:"amount"`
	Type          string   `json:"type"`
	Category      string   `json:"category"`
	PaymentMethod string   `json:"payment_method"`
	Status        string   `json:"status"`
	Notes         string   `json:"notes"`
	Tags          []string `json:"tags"`
	IsInstallment bool     `json:"is_installment"`
	Installment   *struct {
		TotalAmount        float64 `json:"totalAmount"`
		TotalInstallments  int     `json:"totalInstallments"`
		CurrentInstallment int     `json:"currentInstallment"`
		NextDueDate        string  `json:"nextDueDate"`
	} `json:"installment_info"`
}

// CreateTransaction creates a transaction together with its projection; the
// body's type field picks revenue or expense.
func CreateTransaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req transactionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if req.Type != models.TypeRevenue && req.Type != models.TypeExpense {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be revenue or expense"})
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

	tx, _, err := services.CreateEntry(db.GetDB(), req.Type, services.EntryInput{
		UserID:        userID,
		Description:   req.Description,
		Amount:        req.Amount,
		Category:      req.Category,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Tags:          req.Tags,
		IsInstallment: req.IsInstallment,
		Installment:   installment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": tx})
}

func GetTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	if id := c.Query("id"); id != "" {
		tx, err := services.GetTransaction(db.GetDB(), userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "transaction": tx})
		return
	}

	transactions, err := services.ListTransactions(db.GetDB(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactions": transactions})
}

func UpdateTransaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		Transaction transactionPayload `json:"transaction"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	t := req.Transaction
	if t.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction id is required"})
		return
	}
	date, ok := parseDate(t.Date)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	var installment *models.InstallmentInfo
	if t.IsInstallment {
		if t.Installment == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "installment_info is required when is_installment is true"})
			return
		}
		var override *time.Time
		if t.Installment.NextDueDate != "" {
			if d, ok := parseDate(t.Installment.NextDueDate); ok {
				override = &d
			}
		}
		info, err := services.BuildInstallmentInfo(t.Installment.TotalAmount,
			t.Installment.TotalInstallments, t.Installment.CurrentInstallment, date, override)
		if err != nil {
			respondError(c, err)
			return
		}
		installment = info
	}

	updated, err := services.UpdateTransaction(db.GetDB(), userID, services.TransactionUpdate{
		ID:            t.ID,
		Date:          date,
		Description:   t.Description,
		Amount:        t.Amount,
		Category:      t.Category,
		PaymentMethod: t.PaymentMethod,
		Status:        t.Status,
		Notes:         t.Notes,
		Tags:          t.Tags,
		IsInstallment: t.IsInstallment,
		Installment:   installment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": updated})
}

func DeleteTransaction(c *gin.Context) {
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
	if err := services.DeleteTransaction(db.GetDB(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": true})
}

// GetInstallmentSummary aggregates all installment series of a user.
func GetInstallmentSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	transactions, err := services.ListInstallmentTransactions(db.GetDB(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	summary := services.SummarizeInstallments(transactions)
	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}
