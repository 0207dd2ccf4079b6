package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType separates money coming in from money going out.
type ExpenseType string

const (
	ExpenseTypeIncome  ExpenseType = "income"
	ExpenseTypeExpense ExpenseType = "expense"
)

// Expense is a single income or expense entry. Amount is an exact decimal.
type Expense struct {
	Base
	UserID      uint            `gorm:"not null;index:idx_expenses_user_date,priority:1" json:"user_id"`
	Title       string          `gorm:"not null" json:"title"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Category    string          `gorm:"size:50;not null" json:"category"`
	Currency    string          `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Type        ExpenseType     `gorm:"size:10;not null" json:"type"`
	ExpenseDate time.Time       `gorm:"not null;index:idx_expenses_user_date,priority:2" json:"expense_date"`
	Note        string          `json:"note"`
}
