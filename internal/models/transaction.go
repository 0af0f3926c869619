package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction kinds recorded in the ledger.
const (
	TransactionDeposit    = "deposit"
	TransactionWithdrawal = "withdrawal"
)

// Transaction represents one immutable ledger entry for a deposit or
// withdrawal. Entries are keyed by the account's dashboard token and are
// never updated or deleted.
type Transaction struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	DashboardToken string          `gorm:"index;not null" json:"dashboardToken"`
	Kind           string          `gorm:"size:20;not null" json:"kind"` // deposit, withdrawal
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedAt      time.Time       `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name for Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
