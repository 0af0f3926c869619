package models

import (
	"time"
)

// ReferralEdge records that an account registered naming another account as
// its inviter. Rows are created only during the invited account's
// registration and are never updated or deleted; ascending ID is the order
// in which the inviter's referrals arrived.
type ReferralEdge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	InviterID string    `gorm:"index;not null" json:"inviterId"`
	InvitedID string    `gorm:"uniqueIndex;not null" json:"invitedId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for ReferralEdge model
func (ReferralEdge) TableName() string {
	return "referral_edges"
}
