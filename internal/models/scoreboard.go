package models

// ScoreboardEntry is the rank-ordered read projection of account scores.
// Account.Score is authoritative; entries are written through in the same
// transaction as every score-affecting mutation.
type ScoreboardEntry struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	ExternalID string `gorm:"uniqueIndex;not null" json:"externalId"`
	Score      int64  `gorm:"default:0" json:"score"`
}

// TableName specifies the table name for ScoreboardEntry model
func (ScoreboardEntry) TableName() string {
	return "scoreboard_entries"
}
