package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/JoelSantos-JS/Alidash-sub006/config"
	"github.com/JoelSantos-JS/Alidash-sub006/db"
	"github.com/JoelSantos-JS/Alidash-sub006/handlers"
	"github.com/JoelSantos-JS/Alidash-sub006/middleware"
)

func runMigrations() {
	sqlBytes, err := os.ReadFile("schema.sql")
	if err != nil {
		log.Fatal("Failed to read schema.sql:", err)
	}

	if _, err := db.GetDB().Exec(string(sqlBytes)); err != nil {
		log.Fatal("Failed to apply schema:", err)
	}
	log.Println("Database schema verified")
}

func main() {
	if err := db.InitDB(); err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	runMigrations()

	features := config.LoadFeatures()
	limits := config.LoadLimits()
	log.Printf(
		"Features: auth=%v billing=%v notifications=%v | trial debts=%v transactions=%v, quota=%d/month",
		features.AuthEnabled,
		features.BillingEnabled,
		features.NotificationsEnabled,
		limits.TrialWindowDebts,
		limits.TrialWindowTransactions,
		limits.BasicMonthlyTxLimit,
	)

	r := gin.Default()

	r.POST("/auth/signup", handlers.Signup)
	r.POST("/auth/login", handlers.Login)

	authed := r.Group("/")
	authed.Use(middleware.AuthRequired())
	{
		authed.GET("/auth/me", handlers.Me)

		authed.POST("/expenses/create", handlers.CreateExpense)
		authed.GET("/expenses/get", handlers.GetExpenses)
		authed.PUT("/expenses/update", handlers.UpdateExpense)
		authed.DELETE("/expenses/delete", handlers.DeleteExpense)

		authed.POST("/revenues/create", handlers.CreateRevenue)
		authed.GET("/revenues/get", handlers.GetRevenues)
		authed.PUT("/revenues/update", handlers.UpdateRevenue)
		authed.DELETE("/revenues/delete", handlers.DeleteRevenue)

		authed.POST("/transactions/create", handlers.CreateTransaction)
		authed.GET("/transactions/get", handlers.GetTransactions)
		authed.PUT("/transactions/update", handlers.UpdateTransaction)
		authed.DELETE("/transactions/delete", handlers.DeleteTransaction)
		authed.GET("/transactions/installments/summary", handlers.GetInstallmentSummary)

		authed.POST("/debts/create", handlers.CreateDebt)
		authed.GET("/debts/get", handlers.GetDebts)
		authed.PUT("/debts/update", handlers.UpdateDebt)
		authed.DELETE("/debts/delete", handlers.DeleteDebt)
		authed.POST("/debts/payments/create", handlers.CreateDebtPayment)
		authed.PUT("/debts/balance", handlers.UpdateDebtBalance)

		authed.POST("/user/get", handlers.GetUser)
		authed.PUT("/user/password", handlers.UpdatePassword)

		authed.POST("/billing/upgrade", handlers.UpgradePlan)
		authed.POST("/billing/downgrade", handlers.DowngradePlan)

		authed.GET("/stats/overview", handlers.GetStatsOverview)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Println("Server starting on port " + port)
	r.Run(":" + port)
}
