package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoelSantos-JS/Alidash-sub006/db"
	"github.com/JoelSantos-JS/Alidash-sub006/models"
	"github.com/JoelSantos-JS/Alidash-sub006/services"
)

type debtPayload struct {
	ID             string                   `json:"id"`
	CreditorName   string                   `json:"creditor_name"`
	OriginalAmount float64                  `json:"original_amount"`
	CurrentAmount  float64                  `json:"current_amount"`
	InterestRate   *float64                 `json:"interest_rate"`
	DueDate        string                   `json:"due_date"`
	Status         string                   `json:"status"`
	Category       string                   `json:"category"`
	Priority       string                   `json:"priority"`
	PaymentMethod  string                   `json:"payment_method"`
	Notes          string                   `json:"notes"`
	Installments   *models.DebtInstallments `json:"installments"`
}

func (p *debtPayload) toInput() (services.DebtInput, bool) {
	dueDate, ok := parseDate(p.DueDate)
	if !ok {
		return services.DebtInput{}, false
	}
	return services.DebtInput{
		CreditorName:   p.CreditorName,
		OriginalAmount: p.OriginalAmount,
		CurrentAmount:  p.CurrentAmount,
		InterestRate:   p.InterestRate,
		DueDate:        dueDate,
		Status:         p.Status,
		Category:       p.Category,
		Priority:       p.Priority,
		PaymentMethod:  p.PaymentMethod,
		Notes:          p.Notes,
		Installments:   p.Installments,
	}, true
}

func CreateDebt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req debtPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	in, ok := req.toInput()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date"})
		return
	}

	if !allowWrite(c, userID, "debts") {
		return
	}

	debt, err := services.CreateDebt(db.GetDB(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "debt": debt})
}

func GetDebts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	debts, err := services.ListDebts(db.GetDB(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "debts": debts})
}

func UpdateDebt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req debtPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	in, ok := req.toInput()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date"})
		return
	}

	if err := services.UpdateDebt(db.GetDB(), userID, req.ID, in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func DeleteDebt(c *gin.Context) {
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
	if err := services.DeleteDebt(db.GetDB(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": true})
}

// CreateDebtPayment appends to a debt's payment history. Balance mutation is a
// separate PUT /debts/balance call; the two are not folded together here.
func CreateDebtPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		DebtID        string  `json:"debt_id"`
		Date          string  `json:"date"`
		Amount        float64 `json:"amount"`
		PaymentMethod string  `json:"payment_method"`
		Notes         string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	var date time.Time
	if req.Date != "" {
		d, ok := parseDate(req.Date)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
			return
		}
		date = d
	}

	if !allowWrite(c, userID, "debts") {
		return
	}

	payment, err := services.RecordPayment(db.GetDB(), userID, req.DebtID, date,
		req.Amount, req.PaymentMethod, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
}

// UpdateDebtBalance is the explicit second step after recording a payment.
func UpdateDebtBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		DebtID        string  `json:"debt_id"`
		CurrentAmount float64 `json:"current_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if req.DebtID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "debt_id is required"})
		return
	}

	if !allowWrite(c, userID, "debts") {
		return
	}

	if err := services.UpdateDebtBalance(db.GetDB(), userID, req.DebtID, req.CurrentAmount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
