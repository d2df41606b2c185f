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

// UpgradePlan moves a user to a paid tier and stamps the plan metadata the
// renewal state machine watches. Payment collection happens elsewhere.
func UpgradePlan(c *gin.Context) {
	features := config.LoadFeatures()
	if !features.BillingEnabled {
		c.JSON(http.StatusNotFound, gin.H{"error": "Billing not enabled"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		Plan string `json:"plan"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if req.Plan != models.PlanBasic && req.Plan != models.PlanPro {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan. Must be 'basic' or 'pro'."})
		return
	}

	limits := config.LoadLimits()
	now := time.Now()
	renewal := now.Add(limits.PlanCycle)
	price := services.PlanPrice(req.Plan)

	_, err := db.GetDB().Exec(`
		UPDATE users
		SET account_type = $1, plan_status = $2, plan_price = $3,
		    plan_started_at = $4, plan_next_renewal_at = $5
		WHERE id = $6
	`, req.Plan, models.PlanStatusActive, price, now, renewal, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"account_type":         req.Plan,
		"plan_status":          models.PlanStatusActive,
		"plan_price":           price,
		"plan_next_renewal_at": renewal,
	})
}

// DowngradePlan drops a user back to the free personal tier immediately.
func DowngradePlan(c *gin.Context) {
	features := config.LoadFeatures()
	if !features.BillingEnabled {
		c.JSON(http.StatusNotFound, gin.H{"error": "Billing not enabled"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	_, err := db.GetDB().Exec(`
		UPDATE users
		SET account_type = $1, plan_status = $2, plan_price = NULL,
		    plan_next_renewal_at = NULL
		WHERE id = $3
	`, models.PlanPersonal, models.PlanStatusExpired, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"account_type": models.PlanPersonal,
		"plan_status":  models.PlanStatusExpired,
	})
}
