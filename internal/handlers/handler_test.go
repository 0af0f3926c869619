package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"referral-arcade/internal/models"
	"referral-arcade/internal/services"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Account{},
		&models.ReferralEdge{},
		&models.Transaction{},
		&models.ScoreboardEntry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	db.Exec("DELETE FROM accounts")
	db.Exec("DELETE FROM referral_edges")
	db.Exec("DELETE FROM transactions")
	db.Exec("DELETE FROM scoreboard_entries")

	accountService := services.NewAccountService(db, nil, "http://localhost:8080/dashboard", 10000, 100)
	queryService := services.NewQueryService(db, nil)

	router := gin.New()
	RegisterRoutes(router, NewAccountHandler(accountService), NewQueryHandler(queryService, accountService))
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/arcade/register", gin.H{
		"externalId":  "u1",
		"displayName": "Player One",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		DashboardLink string `json:"dashboardLink"`
		PointsBalance int64  `json:"pointsBalance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.DashboardLink == "" {
		t.Error("missing dashboard link")
	}
	if resp.PointsBalance != 10000 {
		t.Errorf("expected points balance 10000, got %d", resp.PointsBalance)
	}

	// missing externalId is a validation error
	w = doJSON(t, router, http.MethodPost, "/api/arcade/register", gin.H{"displayName": "x"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDepositEndpointStatusCodes(t *testing.T) {
	router, db := setupRouter(t)

	doJSON(t, router, http.MethodPost, "/api/arcade/register", gin.H{"externalId": "u1"})
	var account models.Account
	db.Where("external_id = ?", "u1").First(&account)

	// unknown token
	w := doJSON(t, router, http.MethodPost, "/api/arcade/deposit", gin.H{
		"dashboardToken": "bogus",
		"walletAddress":  "wallet-A",
		"amount":         100,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown token, got %d", w.Code)
	}

	// non-integer amount
	w = doJSON(t, router, http.MethodPost, "/api/arcade/deposit", gin.H{
		"dashboardToken": account.DashboardToken,
		"walletAddress":  "wallet-A",
		"amount":         10.5,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for fractional amount, got %d", w.Code)
	}

	// first deposit binds the wallet
	w = doJSON(t, router, http.MethodPost, "/api/arcade/deposit", gin.H{
		"dashboardToken": account.DashboardToken,
		"walletAddress":  "wallet-A",
		"amount":         100,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// mismatched wallet is a conflict
	w = doJSON(t, router, http.MethodPost, "/api/arcade/deposit", gin.H{
		"dashboardToken": account.DashboardToken,
		"walletAddress":  "wallet-B",
		"amount":         100,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for wallet mismatch, got %d", w.Code)
	}
}

func TestPlayerLostEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	doJSON(t, router, http.MethodPost, "/api/arcade/register", gin.H{"externalId": "u1"})

	w := doJSON(t, router, http.MethodPost, "/api/arcade/player-lost", gin.H{
		"externalId":     "u1",
		"gamePointsLost": 3000,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		PointsBalance int64 `json:"pointsBalance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PointsBalance != 7000 {
		t.Errorf("expected balance 7000, got %d", resp.PointsBalance)
	}

	w = doJSON(t, router, http.MethodPost, "/api/arcade/player-lost", gin.H{
		"externalId":     "u1",
		"gamePointsLost": 8000,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for insufficient balance, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/arcade/player-lost", gin.H{
		"externalId":     "nobody",
		"gamePointsLost": 10,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown account, got %d", w.Code)
	}
}

func TestScoreboardEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	doJSON(t, router, http.MethodPost, "/api/arcade/register", gin.H{"externalId": "u1"})
	doJSON(t, router, http.MethodPost, "/api/arcade/update-balance", gin.H{
		"externalId":  "u1",
		"gamePoints":  50,
		"scorePoints": 10,
	})

	w := doJSON(t, router, http.MethodGet, "/api/arcade/scoreboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Scoreboard []models.ScoreboardEntry `json:"scoreboard"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Scoreboard) != 1 || resp.Scoreboard[0].Score != 10 {
		t.Errorf("unexpected scoreboard: %+v", resp.Scoreboard)
	}

	w = doJSON(t, router, http.MethodPost, "/api/arcade/reset-scores", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reset-scores: expected 200, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/arcade/scoreboard", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	for _, entry := range resp.Scoreboard {
		if entry.Score != 0 {
			t.Errorf("entry %s not reset: %d", entry.ExternalID, entry.Score)
		}
	}
}
