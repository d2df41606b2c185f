package models

import (
	"time"
)

const (
	TypeRevenue = "revenue"
	TypeExpense = "expense"
)

// InstallmentInfo is stored as JSONB on a transaction row.
type InstallmentInfo struct {
	TotalAmount        float64    `json:"totalAmount"`
	TotalInstallments  int        `json:"totalInstallments"`
	CurrentInstallment int        `json:"currentInstallment"`
	InstallmentAmount  float64    `json:"installmentAmount"`
	RemainingAmount    float64    `json:"remainingAmount"`
	NextDueDate        *time.Time `json:"nextDueDate,omitempty"`
}

type Transaction struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	Date            time.Time        `json:"date"`
	Description     string           `json:"description"`
	Amount          float64          `json:"amount"`
	Type            string           `json:"type"`
	Category        string           `json:"category"`
	PaymentMethod   string           `json:"payment_method,omitempty"`
	Status          string           `json:"status"`
	Notes           string           `json:"notes,omitempty"`
	IsInstallment   bool             `json:"is_installment"`
	InstallmentInfo *InstallmentInfo `json:"installment_info,omitempty"`
	Tags            []string         `json:"tags"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Revenue is the revenue-side projection of a transaction. TransactionID is
// nil for rows created before the ledger linked the two tables.
type Revenue struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	TransactionID *string   `json:"transaction_id,omitempty"`
	Description   string    `json:"description"`
	Amount        float64   `json:"amount"`
	Category      string    `json:"category"`
	Source        string    `json:"source,omitempty"`
	Date          time.Time `json:"date"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Expense struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	TransactionID *string   `json:"transaction_id,omitempty"`
	Description   string    `json:"description"`
	Amount        float64   `json:"amount"`
	Category      string    `json:"category"`
	Supplier      string    `json:"supplier,omitempty"`
	Date          time.Time `json:"date"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// DebtInstallments is the optional installment block stored as JSONB on a debt.
type DebtInstallments struct {
	Total  int     `json:"total"`
	Paid   int     `json:"paid"`
	Amount float64 `json:"amount"`
}

type Debt struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	CreditorName   string            `json:"creditor_name"`
	OriginalAmount float64           `json:"original_amount"`
	CurrentAmount  float64           `json:"current_amount"`
	InterestRate   *float64          `json:"interest_rate,omitempty"`
	DueDate        time.Time         `json:"due_date"`
	Status         string            `json:"status"`
	Category       string            `json:"category"`
	Priority       string            `json:"priority"`
	PaymentMethod  string            `json:"payment_method,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	Installments   *DebtInstallments `json:"installments,omitempty"`
	Payments       []DebtPayment     `json:"payments"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type DebtPayment struct {
	ID            string    `json:"id"`
	DebtID        string    `json:"debt_id"`
	Date          time.Time `json:"date"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// InstallmentSummary aggregates all installment-flagged transactions of a user.
type InstallmentSummary struct {
	TotalInstallment float64 `json:"totalInstallment"`
	RemainingToPay   float64 `json:"remainingToPay"`
	AlreadyPaid      float64 `json:"alreadyPaid"`
}
