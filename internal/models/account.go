package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a registered player in the system
type Account struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ExternalID      string          `gorm:"uniqueIndex;not null" json:"externalId"`
	InviterID       *string         `gorm:"index" json:"inviterId,omitempty"`
	DisplayName     string          `json:"displayName,omitempty"`
	PointsBalance   int64           `gorm:"default:0" json:"pointsBalance"`
	RealBalance     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"realBalance"`
	ReferralBalance int64           `gorm:"default:0" json:"referralBalance"`
	WalletAddress   string          `json:"walletAddress,omitempty"` // empty until the first deposit binds it
	DashboardToken  string          `gorm:"uniqueIndex;not null" json:"-"`
	Score           int64           `gorm:"default:0" json:"score"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for Account model
func (Account) TableName() string {
	return "accounts"
}
