package services

import (
	"context"
	"errors"
	"testing"

	"referral-arcade/internal/models"
)

func TestScoreboardRankingAfterCredit(t *testing.T) {
	db := setupTestDB(t)
	accounts := newTestAccountService(db)
	queries := NewQueryService(db, nil)

	for _, id := range []string{"alpha", "beta"} {
		if _, err := accounts.Register(id, "", ""); err != nil {
			t.Fatalf("Register %s failed: %v", id, err)
		}
	}

	if _, err := accounts.CreditPoints("alpha", 50, 10); err != nil {
		t.Fatalf("CreditPoints alpha failed: %v", err)
	}
	if _, err := accounts.CreditPoints("beta", 50, 30); err != nil {
		t.Fatalf("CreditPoints beta failed: %v", err)
	}

	entries, err := queries.Scoreboard(context.Background())
	if err != nil {
		t.Fatalf("Scoreboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ExternalID != "beta" || entries[0].Score != 30 {
		t.Errorf("expected beta:30 first, got %s:%d", entries[0].ExternalID, entries[0].Score)
	}
	if entries[1].ExternalID != "alpha" || entries[1].Score != 10 {
		t.Errorf("expected alpha:10 second, got %s:%d", entries[1].ExternalID, entries[1].Score)
	}
}

func TestResetScores(t *testing.T) {
	db := setupTestDB(t)
	accounts := newTestAccountService(db)
	queries := NewQueryService(db, nil)

	if _, err := accounts.Register("u1", "", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := accounts.CreditPoints("u1", 50, 75); err != nil {
		t.Fatalf("CreditPoints failed: %v", err)
	}

	if err := queries.ResetScores(); err != nil {
		t.Fatalf("ResetScores failed: %v", err)
	}

	entries, err := queries.Scoreboard(context.Background())
	if err != nil {
		t.Fatalf("Scoreboard failed: %v", err)
	}
	for _, entry := range entries {
		if entry.Score != 0 {
			t.Errorf("entry %s not reset: %d", entry.ExternalID, entry.Score)
		}
	}

	var account models.Account
	db.Where("external_id = ?", "u1").First(&account)
	if account.Score != 0 {
		t.Errorf("account score not reset: %d", account.Score)
	}
	if account.PointsBalance != 10050 {
		t.Errorf("reset must not touch balances, got %d", account.PointsBalance)
	}
}

func TestListInvitedAccounts(t *testing.T) {
	db := setupTestDB(t)
	accounts := newTestAccountService(db)
	queries := NewQueryService(db, nil)

	if _, err := accounts.Register("inviter", "", "The Inviter"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := accounts.Register("first", "inviter", "First Friend"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := accounts.Register("second", "inviter", "Second Friend"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	invited, err := queries.ListInvitedAccounts("inviter")
	if err != nil {
		t.Fatalf("ListInvitedAccounts failed: %v", err)
	}
	if len(invited) != 2 {
		t.Fatalf("expected 2 invited accounts, got %d", len(invited))
	}
	if invited[0].ExternalID != "first" || invited[0].DisplayName != "First Friend" {
		t.Errorf("unexpected first entry: %+v", invited[0])
	}
	if invited[1].ExternalID != "second" {
		t.Errorf("unexpected second entry: %+v", invited[1])
	}

	if _, err := queries.ListInvitedAccounts("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTransactionHistory(t *testing.T) {
	db := setupTestDB(t)
	accounts := newTestAccountService(db)
	queries := NewQueryService(db, nil)

	if _, err := accounts.Register("u1", "", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	var stored models.Account
	db.Where("external_id = ?", "u1").First(&stored)
	token := stored.DashboardToken

	if _, err := accounts.Deposit(token, "wallet-A", 500); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if _, err := accounts.Deposit(token, "wallet-A", 200); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	history, err := queries.TransactionHistory(token)
	if err != nil {
		t.Fatalf("TransactionHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].ID > history[1].ID {
		t.Errorf("history out of insertion order")
	}

	if _, err := queries.TransactionHistory("no-such-token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListAccounts(t *testing.T) {
	db := setupTestDB(t)
	accounts := newTestAccountService(db)
	queries := NewQueryService(db, nil)

	if _, err := accounts.Register("u1", "", "One"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := accounts.Register("u2", "", "Two"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	summaries, err := queries.ListAccounts()
	if err != nil {
		t.Fatalf("ListAccounts failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ExternalID != "u1" || summaries[0].PointsBalance != 10000 {
		t.Errorf("unexpected summary: %+v", summaries[0])
	}
}

func TestGetByDashboardToken(t *testing.T) {
	db := setupTestDB(t)
	accounts := newTestAccountService(db)
	queries := NewQueryService(db, nil)

	if _, err := accounts.Register("u1", "", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	var stored models.Account
	db.Where("external_id = ?", "u1").First(&stored)

	account, err := queries.GetByDashboardToken(stored.DashboardToken)
	if err != nil {
		t.Fatalf("GetByDashboardToken failed: %v", err)
	}
	if account.ExternalID != "u1" {
		t.Errorf("wrong account: %s", account.ExternalID)
	}

	if _, err := queries.GetByDashboardToken("bogus"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
