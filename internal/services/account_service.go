package services

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"referral-arcade/internal/cache"
	"referral-arcade/internal/models"
	"referral-arcade/internal/utils"
)

// AccountService handles registration, balance mutation and wallet-bound
// deposits and withdrawals.
type AccountService struct {
	db            *gorm.DB
	scoreboard    *cache.ScoreboardCache
	dashboardBase string
	signupGrant   int64
	referralBonus int64
}

// NewAccountService creates a new AccountService
func NewAccountService(db *gorm.DB, scoreboard *cache.ScoreboardCache, dashboardBase string, signupGrant, referralBonus int64) *AccountService {
	return &AccountService{
		db:            db,
		scoreboard:    scoreboard,
		dashboardBase: dashboardBase,
		signupGrant:   signupGrant,
		referralBonus: referralBonus,
	}
}

// RegisterResult is what the register endpoint reports back to the caller.
type RegisterResult struct {
	DashboardLink string          `json:"dashboardLink"`
	PointsBalance int64           `json:"pointsBalance"`
	RealBalance   decimal.Decimal `json:"realBalance"`
}

// DashboardLink builds the dashboard URL for an account's token.
func (s *AccountService) DashboardLink(dashboardToken string) string {
	return fmt.Sprintf("%s/%s", s.dashboardBase, dashboardToken)
}

func (s *AccountService) registerResult(account *models.Account) *RegisterResult {
	return &RegisterResult{
		DashboardLink: s.DashboardLink(account.DashboardToken),
		PointsBalance: account.PointsBalance,
		RealBalance:   account.RealBalance,
	}
}

// Register creates a new account with the signup grant and a fresh dashboard
// token. Re-registering an existing externalID is not an error: the existing
// account's dashboard link and current balances are returned unchanged.
//
// When inviterID resolves to an existing account, the new account is recorded
// on the inviter's referral list and the inviter is credited the referral
// bonus, all in the same transaction as the account insert. Unknown inviter
// ids are ignored rather than failing registration.
func (s *AccountService) Register(externalID, inviterID, displayName string) (*RegisterResult, error) {
	if externalID == "" {
		return nil, validationErr("externalId", "must not be empty")
	}

	var existing models.Account
	err := s.db.Where("external_id = ?", externalID).First(&existing).Error
	if err == nil {
		return s.registerResult(&existing), nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("register %s: %w", externalID, err)
	}

	if displayName == "" {
		generated, err := utils.GenerateDisplayName()
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", externalID, err)
		}
		displayName = generated
	}

	account := models.Account{
		ExternalID:     externalID,
		DisplayName:    displayName,
		PointsBalance:  s.signupGrant,
		RealBalance:    decimal.Zero,
		DashboardToken: uuid.NewString(),
	}

	referralCredited := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var inviter *models.Account
		if inviterID != "" && inviterID != externalID {
			var found models.Account
			switch err := tx.Where("external_id = ?", inviterID).First(&found).Error; err {
			case nil:
				inviter = &found
				account.InviterID = &inviter.ExternalID
			case gorm.ErrRecordNotFound:
				// unknown inviter, register without a referral edge
			default:
				return err
			}
		}

		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		if inviter == nil {
			return nil
		}

		edge := models.ReferralEdge{
			InviterID: inviter.ExternalID,
			InvitedID: account.ExternalID,
		}
		if err := tx.Create(&edge).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Account{}).Where("id = ?", inviter.ID).
			Updates(map[string]interface{}{
				"referral_balance": gorm.Expr("referral_balance + ?", s.referralBonus),
				"score":            gorm.Expr("score + ?", s.referralBonus),
			}).Error; err != nil {
			return err
		}
		referralCredited = true

		// re-read the committed score so the projection never drifts behind
		// a concurrent credit to the same inviter
		var updated models.Account
		if err := tx.Where("id = ?", inviter.ID).First(&updated).Error; err != nil {
			return err
		}
		return upsertScoreboard(tx, updated.ExternalID, updated.Score)
	})
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", externalID, err)
	}

	if referralCredited {
		s.scoreboard.Invalidate()
	}
	log.Printf("Registered account %s (inviter %q)", externalID, inviterID)
	return s.registerResult(&account), nil
}

// CreditPoints adds won game points to the points balance and the score delta
// to the account's score, writing the scoreboard projection through in the
// same transaction.
func (s *AccountService) CreditPoints(externalID string, gamePoints, scorePoints int64) (*models.Account, error) {
	return s.credit(externalID, "points_balance", gamePoints, scorePoints)
}

// CreditReal adds a won real-money amount to the real balance and the score
// delta to the account's score.
func (s *AccountService) CreditReal(externalID string, gamePoints, scorePoints int64) (*models.Account, error) {
	return s.credit(externalID, "real_balance", gamePoints, scorePoints)
}

func (s *AccountService) credit(externalID, balanceColumn string, gamePoints, scorePoints int64) (*models.Account, error) {
	if gamePoints <= 0 {
		return nil, validationErr("gamePoints", "must be a positive integer")
	}
	if scorePoints < 0 {
		return nil, validationErr("scorePoints", "must not be negative")
	}

	var account models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("external_id = ?", externalID).First(&account).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Model(&models.Account{}).Where("id = ?", account.ID).
			Updates(map[string]interface{}{
				balanceColumn: gorm.Expr(balanceColumn+" + ?", gamePoints),
				"score":       gorm.Expr("score + ?", scorePoints),
			}).Error; err != nil {
			return err
		}

		// re-read so the returned state and the projection reflect the
		// relative update, not the pre-read copy
		if err := tx.Where("id = ?", account.ID).First(&account).Error; err != nil {
			return err
		}
		return upsertScoreboard(tx, account.ExternalID, account.Score)
	})
	if err != nil {
		return nil, err
	}

	s.scoreboard.Invalidate()
	return &account, nil
}

// DebitPoints subtracts lost game points from the points balance. The debit
// is a single conditional UPDATE guarded on the current balance, so two
// concurrent debits can never drive it negative.
func (s *AccountService) DebitPoints(externalID string, amount int64) (*models.Account, error) {
	return s.debit(externalID, "points_balance", amount)
}

// DebitReal subtracts a lost real-money amount from the real balance.
func (s *AccountService) DebitReal(externalID string, amount int64) (*models.Account, error) {
	return s.debit(externalID, "real_balance", amount)
}

func (s *AccountService) debit(externalID, balanceColumn string, amount int64) (*models.Account, error) {
	if amount <= 0 {
		return nil, validationErr("gamePointsLost", "must be a positive integer")
	}

	var account models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("external_id = ?", externalID).First(&account).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		res := tx.Model(&models.Account{}).
			Where("id = ? AND "+balanceColumn+" >= ?", account.ID, amount).
			Update(balanceColumn, gorm.Expr(balanceColumn+" - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}

		return tx.Where("id = ?", account.ID).First(&account).Error
	})
	if err != nil {
		if err != ErrNotFound && err != ErrInsufficientFunds {
			log.Printf("Debit failed for account %s: %v", externalID, err)
		}
		return nil, err
	}
	return &account, nil
}

// Deposit credits the real balance and appends a deposit ledger entry in one
// transaction. The first deposit binds the supplied wallet address to the
// account permanently; later deposits must present the same address.
func (s *AccountService) Deposit(dashboardToken, walletAddress string, amount int64) (*models.Account, error) {
	if amount <= 0 {
		return nil, validationErr("amount", "must be a positive integer")
	}
	if walletAddress == "" {
		return nil, validationErr("walletAddress", "must not be empty")
	}

	var account models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dashboard_token = ?", dashboardToken).First(&account).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		if account.WalletAddress == "" {
			// first-deposit binding; the guard keeps a concurrent deposit
			// from overwriting an address bound in between
			res := tx.Model(&models.Account{}).
				Where("id = ? AND wallet_address = ''", account.ID).
				Update("wallet_address", walletAddress)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrWalletMismatch
			}
			account.WalletAddress = walletAddress
		} else if account.WalletAddress != walletAddress {
			return ErrWalletMismatch
		}

		value := decimal.NewFromInt(amount)
		if err := tx.Model(&models.Account{}).Where("id = ?", account.ID).
			Update("real_balance", gorm.Expr("real_balance + ?", value)).Error; err != nil {
			return err
		}

		entry := models.Transaction{
			DashboardToken: dashboardToken,
			Kind:           models.TransactionDeposit,
			Amount:         value,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", account.ID).First(&account).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Deposit of %d recorded for dashboard %s", amount, dashboardToken)
	return &account, nil
}

// Withdraw debits the real balance and appends a withdrawal ledger entry in
// one transaction. The supplied wallet address must exactly match the bound
// address; withdrawal never binds, so an account with no bound address can
// never withdraw.
func (s *AccountService) Withdraw(dashboardToken, walletAddress string, amount decimal.Decimal) (*models.Account, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, validationErr("amount", "must be a positive number")
	}

	var account models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dashboard_token = ?", dashboardToken).First(&account).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		if account.WalletAddress == "" || account.WalletAddress != walletAddress {
			return ErrWalletMismatch
		}

		res := tx.Model(&models.Account{}).
			Where("id = ? AND real_balance >= ?", account.ID, amount).
			Update("real_balance", gorm.Expr("real_balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}

		entry := models.Transaction{
			DashboardToken: dashboardToken,
			Kind:           models.TransactionWithdrawal,
			Amount:         amount,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", account.ID).First(&account).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Withdrawal of %s recorded for dashboard %s", amount, dashboardToken)
	return &account, nil
}

// upsertScoreboard writes an account's score through to the scoreboard
// projection inside the caller's transaction.
func upsertScoreboard(tx *gorm.DB, externalID string, score int64) error {
	entry := models.ScoreboardEntry{ExternalID: externalID, Score: score}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"score": score}),
	}).Create(&entry).Error
}
