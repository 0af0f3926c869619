package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"referral-arcade/internal/cache"
	"referral-arcade/internal/models"
)

// QueryService serves the read-only projections plus the bulk score reset.
type QueryService struct {
	db         *gorm.DB
	scoreboard *cache.ScoreboardCache
}

// NewQueryService creates a new QueryService
func NewQueryService(db *gorm.DB, scoreboard *cache.ScoreboardCache) *QueryService {
	return &QueryService{db: db, scoreboard: scoreboard}
}

// AccountSummary is the public projection of an account, with no dashboard
// token or wallet address.
type AccountSummary struct {
	ExternalID      string          `json:"externalId"`
	DisplayName     string          `json:"displayName,omitempty"`
	PointsBalance   int64           `json:"pointsBalance"`
	RealBalance     decimal.Decimal `json:"realBalance"`
	ReferralBalance int64           `json:"referralBalance"`
	Score           int64           `json:"score"`
}

// InvitedAccount is the projection returned for an inviter's referral list.
type InvitedAccount struct {
	ExternalID  string `json:"externalId"`
	DisplayName string `json:"displayName,omitempty"`
}

// GetByExternalID retrieves an account by its external identifier.
func (s *QueryService) GetByExternalID(externalID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("external_id = ?", externalID).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account %s: %w", externalID, err)
	}
	return &account, nil
}

// GetByDashboardToken retrieves an account by its dashboard token.
func (s *QueryService) GetByDashboardToken(dashboardToken string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("dashboard_token = ?", dashboardToken).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get dashboard account: %w", err)
	}
	return &account, nil
}

// ListAccounts returns the public projection of every account.
func (s *QueryService) ListAccounts() ([]AccountSummary, error) {
	var accounts []models.Account
	if err := s.db.Order("id").Find(&accounts).Error; err != nil {
		return nil, err
	}
	summaries := make([]AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, AccountSummary{
			ExternalID:      a.ExternalID,
			DisplayName:     a.DisplayName,
			PointsBalance:   a.PointsBalance,
			RealBalance:     a.RealBalance,
			ReferralBalance: a.ReferralBalance,
			Score:           a.Score,
		})
	}
	return summaries, nil
}

// ListInvitedAccounts resolves an inviter's referral edges to the invited
// accounts, in the order the referrals arrived.
func (s *QueryService) ListInvitedAccounts(externalID string) ([]InvitedAccount, error) {
	if _, err := s.GetByExternalID(externalID); err != nil {
		return nil, err
	}

	var invited []InvitedAccount
	err := s.db.Model(&models.ReferralEdge{}).
		Select("accounts.external_id, accounts.display_name").
		Joins("JOIN accounts ON accounts.external_id = referral_edges.invited_id").
		Where("referral_edges.inviter_id = ?", externalID).
		Order("referral_edges.id").
		Scan(&invited).Error
	if err != nil {
		return nil, fmt.Errorf("list invited for %s: %w", externalID, err)
	}
	return invited, nil
}

// TransactionHistory returns every ledger entry for a dashboard token in
// insertion order.
func (s *QueryService) TransactionHistory(dashboardToken string) ([]models.Transaction, error) {
	if _, err := s.GetByDashboardToken(dashboardToken); err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	err := s.db.Where("dashboard_token = ?", dashboardToken).
		Order("id").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("transaction history: %w", err)
	}
	return transactions, nil
}

// Scoreboard returns every scoreboard entry sorted by score descending,
// served from the Redis cache when one is configured.
func (s *QueryService) Scoreboard(ctx context.Context) ([]models.ScoreboardEntry, error) {
	if entries, ok := s.scoreboard.Get(ctx); ok {
		return entries, nil
	}

	var entries []models.ScoreboardEntry
	if err := s.db.Order("score DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("scoreboard: %w", err)
	}

	s.scoreboard.Set(ctx, entries)
	return entries, nil
}

// ResetScores zeroes the score on every account and every scoreboard entry.
// Balances are untouched. Destructive and unconditional.
func (s *QueryService) ResetScores() error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Account{}).
			Where("score <> ?", 0).
			Update("score", 0).Error; err != nil {
			return err
		}
		return tx.Model(&models.ScoreboardEntry{}).
			Where("score <> ?", 0).
			Update("score", 0).Error
	})
	if err != nil {
		return fmt.Errorf("reset scores: %w", err)
	}

	s.scoreboard.Invalidate()
	return nil
}
