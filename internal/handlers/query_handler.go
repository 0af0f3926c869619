package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"referral-arcade/internal/models"
	"referral-arcade/internal/services"
)

// QueryHandler handles the read-only endpoints and the score reset.
type QueryHandler struct {
	queries  *services.QueryService
	accounts *services.AccountService
}

// NewQueryHandler creates a new QueryHandler
func NewQueryHandler(queries *services.QueryService, accounts *services.AccountService) *QueryHandler {
	return &QueryHandler{queries: queries, accounts: accounts}
}

func accountView(account *models.Account) gin.H {
	view := gin.H{
		"externalId":      account.ExternalID,
		"displayName":     account.DisplayName,
		"pointsBalance":   account.PointsBalance,
		"realBalance":     account.RealBalance,
		"referralBalance": account.ReferralBalance,
		"score":           account.Score,
		"walletAddress":   account.WalletAddress,
		"createdAt":       account.CreatedAt,
	}
	if account.InviterID != nil {
		view["inviterId"] = *account.InviterID
	}
	return view
}

// ListUsers returns the public projection of every account.
func (h *QueryHandler) ListUsers(c *gin.Context) {
	users, err := h.queries.ListAccounts()
	if err != nil {
		respondError(c, "list-users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GetUser returns a single account by external id.
func (h *QueryHandler) GetUser(c *gin.Context) {
	account, err := h.queries.GetByExternalID(c.Param("externalId"))
	if err != nil {
		respondError(c, "get-user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": accountView(account)})
}

// GetDashboard returns the account owning a dashboard token, plus its
// dashboard link.
func (h *QueryHandler) GetDashboard(c *gin.Context) {
	account, err := h.queries.GetByDashboardToken(c.Param("dashboardToken"))
	if err != nil {
		respondError(c, "get-dashboard", err)
		return
	}

	view := accountView(account)
	view["dashboardLink"] = h.accounts.DashboardLink(account.DashboardToken)
	c.JSON(http.StatusOK, gin.H{"user": view})
}

// TransactionHistory returns the ledger for a dashboard token.
func (h *QueryHandler) TransactionHistory(c *gin.Context) {
	transactions, err := h.queries.TransactionHistory(c.Param("dashboardToken"))
	if err != nil {
		respondError(c, "transaction-history", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// InvitedUsers returns the accounts an inviter referred, in referral order.
func (h *QueryHandler) InvitedUsers(c *gin.Context) {
	invited, err := h.queries.ListInvitedAccounts(c.Param("externalId"))
	if err != nil {
		respondError(c, "invited-users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invitedUsers": invited,
		"count":        len(invited),
	})
}

// Scoreboard returns every scoreboard entry, highest score first.
func (h *QueryHandler) Scoreboard(c *gin.Context) {
	entries, err := h.queries.Scoreboard(c.Request.Context())
	if err != nil {
		respondError(c, "scoreboard", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scoreboard": entries})
}

// ResetScores zeroes every score. No confirmation step.
func (h *QueryHandler) ResetScores(c *gin.Context) {
	if err := h.queries.ResetScores(); err != nil {
		respondError(c, "reset-scores", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All scores reset"})
}
