package services

import (
	"testing"
	"time"

	"github.com/whanarchyven/drsarha-conf/internal/models"
)

func TestRankOrdersByCountThenCreation(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	u1 := seedUser(t, db, "first@example.com")
	u2 := seedUser(t, db, "second@example.com")
	u3 := seedUser(t, db, "third@example.com")

	base := time.Now().Add(-time.Hour)
	scores := []models.Score{
		{SessionID: 1, UserID: u1.ID, CorrectCount: 3, CreatedAt: base},
		{SessionID: 1, UserID: u2.ID, CorrectCount: 5, CreatedAt: base.Add(time.Minute)},
		{SessionID: 1, UserID: u3.ID, CorrectCount: 3, CreatedAt: base.Add(2 * time.Minute)},
		{SessionID: 2, UserID: u1.ID, CorrectCount: 99, CreatedAt: base},
	}
	for i := range scores {
		if err := db.Create(&scores[i]).Error; err != nil {
			t.Fatalf("seed score: %v", err)
		}
	}

	entries, err := svc.Rank(1, 0)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3 (other sessions excluded)", len(entries))
	}

	wantOrder := []uint{u2.ID, u1.ID, u3.ID}
	for i, want := range wantOrder {
		if entries[i].UserID != want {
			t.Errorf("place %d: user = %d, want %d", i+1, entries[i].UserID, want)
		}
		if entries[i].Place != i+1 {
			t.Errorf("place field = %d, want %d", entries[i].Place, i+1)
		}
	}
	if entries[0].FullName != "Test User" {
		t.Errorf("full name not attached: %q", entries[0].FullName)
	}
}

func TestRankHonorsLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	for i := 0; i < 5; i++ {
		user := seedUser(t, db, string(rune('a'+i))+"@example.com")
		if err := db.Create(&models.Score{SessionID: 7, UserID: user.ID, CorrectCount: i}).Error; err != nil {
			t.Fatalf("seed score: %v", err)
		}
	}

	entries, err := svc.Rank(7, 2)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("entries = %d, want 2", len(entries))
	}
	if entries[0].CorrectCount != 4 {
		t.Errorf("top score = %d, want 4", entries[0].CorrectCount)
	}
}

func TestRankEmptySession(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	entries, err := svc.Rank(42, 0)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}
