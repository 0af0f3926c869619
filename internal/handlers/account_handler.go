package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"referral-arcade/internal/services"
)

// AccountHandler handles the write endpoints: registration, balance
// mutation, deposits and withdrawals.
type AccountHandler struct {
	accounts *services.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// positiveInt coerces a JSON number into a positive integer amount.
func positiveInt(v float64) (int64, bool) {
	if v <= 0 || v != math.Trunc(v) || v > math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

// nonNegativeInt coerces a JSON number into a non-negative integer delta.
func nonNegativeInt(v float64) (int64, bool) {
	if v < 0 || v != math.Trunc(v) || v > math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

// Register creates an account, or returns the existing one for an already
// registered externalId.
func (h *AccountHandler) Register(c *gin.Context) {
	var req struct {
		ExternalID  string `json:"externalId" binding:"required"`
		InviterID   string `json:"inviterId"`
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.accounts.Register(req.ExternalID, req.InviterID, req.DisplayName)
	if err != nil {
		respondError(c, "register", err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Deposit credits the real balance, binding the wallet address on first use.
func (h *AccountHandler) Deposit(c *gin.Context) {
	var req struct {
		DashboardToken string  `json:"dashboardToken" binding:"required"`
		WalletAddress  string  `json:"walletAddress" binding:"required"`
		Amount         float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	amount, ok := positiveInt(req.Amount)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount: must be a positive integer"})
		return
	}

	account, err := h.accounts.Deposit(req.DashboardToken, req.WalletAddress, amount)
	if err != nil {
		respondError(c, "deposit", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Deposit successful",
		"realBalance":   account.RealBalance,
		"walletAddress": account.WalletAddress,
	})
}

// Withdraw debits the real balance against the bound wallet address.
func (h *AccountHandler) Withdraw(c *gin.Context) {
	var req struct {
		DashboardToken string  `json:"dashboardToken" binding:"required"`
		WalletAddress  string  `json:"walletAddress" binding:"required"`
		Amount         float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount: must be a positive number"})
		return
	}

	account, err := h.accounts.Withdraw(req.DashboardToken, req.WalletAddress, decimal.NewFromFloat(req.Amount))
	if err != nil {
		respondError(c, "withdraw", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Withdrawal successful",
		"realBalance": account.RealBalance,
	})
}

type creditRequest struct {
	ExternalID  string  `json:"externalId" binding:"required"`
	GamePoints  float64 `json:"gamePoints" binding:"required"`
	ScorePoints float64 `json:"scorePoints"`
}

func (h *AccountHandler) bindCredit(c *gin.Context) (externalID string, gamePoints, scorePoints int64, ok bool) {
	var req creditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return "", 0, 0, false
	}
	gamePoints, valid := positiveInt(req.GamePoints)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gamePoints: must be a positive integer"})
		return "", 0, 0, false
	}
	scorePoints, valid = nonNegativeInt(req.ScorePoints)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scorePoints: must be a non-negative integer"})
		return "", 0, 0, false
	}
	return req.ExternalID, gamePoints, scorePoints, true
}

// UpdateBalance credits won game points to the points balance.
func (h *AccountHandler) UpdateBalance(c *gin.Context) {
	externalID, gamePoints, scorePoints, ok := h.bindCredit(c)
	if !ok {
		return
	}

	account, err := h.accounts.CreditPoints(externalID, gamePoints, scorePoints)
	if err != nil {
		respondError(c, "update-balance", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pointsBalance": account.PointsBalance,
		"score":         account.Score,
	})
}

// UpdateRealBalance credits a won real-money amount to the real balance.
func (h *AccountHandler) UpdateRealBalance(c *gin.Context) {
	externalID, gamePoints, scorePoints, ok := h.bindCredit(c)
	if !ok {
		return
	}

	account, err := h.accounts.CreditReal(externalID, gamePoints, scorePoints)
	if err != nil {
		respondError(c, "update-realbalance", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"realBalance": account.RealBalance,
		"score":       account.Score,
	})
}

type debitRequest struct {
	ExternalID     string  `json:"externalId" binding:"required"`
	GamePointsLost float64 `json:"gamePointsLost" binding:"required"`
}

func (h *AccountHandler) bindDebit(c *gin.Context) (externalID string, amount int64, ok bool) {
	var req debitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return "", 0, false
	}
	amount, valid := positiveInt(req.GamePointsLost)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gamePointsLost: must be a positive integer"})
		return "", 0, false
	}
	return req.ExternalID, amount, true
}

// PlayerLost debits lost game points from the points balance.
func (h *AccountHandler) PlayerLost(c *gin.Context) {
	externalID, amount, ok := h.bindDebit(c)
	if !ok {
		return
	}

	account, err := h.accounts.DebitPoints(externalID, amount)
	if err != nil {
		respondError(c, "player-lost", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pointsBalance": account.PointsBalance,
	})
}

// PlayerRealLost debits a lost real-money amount from the real balance.
func (h *AccountHandler) PlayerRealLost(c *gin.Context) {
	externalID, amount, ok := h.bindDebit(c)
	if !ok {
		return
	}

	account, err := h.accounts.DebitReal(externalID, amount)
	if err != nil {
		respondError(c, "player-reallost", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"realBalance": account.RealBalance,
	})
}
