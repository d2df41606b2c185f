package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoelSantos-JS/Alidash-sub006/config"
	"github.com/JoelSantos-JS/Alidash-sub006/db"
	"github.com/JoelSantos-JS/Alidash-sub006/services"
)

// GetUser loads a user by id or email. Every read runs the plan renewal state
// machine first, so expired paid plans are downgraded before the response goes
// out.
func GetUser(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if req.UserID == "" && req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id or email is required"})
		return
	}

	user, err := services.RefreshUserPlan(db.GetDB(), req.UserID, req.Email,
		config.LoadLimits(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdatePassword forwards the change to the external identity provider. A
// deadline on the outbound call maps to 504 instead of a generic failure.
func UpdatePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if err := services.UpdatePassword(c.Request.Context(), userID, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
