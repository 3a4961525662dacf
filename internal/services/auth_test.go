package services

import (
	"testing"

	"github.com/whanarchyven/drsarha-conf/internal/models"
)

func TestRegisterLoginRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret")

	token, err := svc.Register("doc@example.com", "secret123", "Anna Petrova", "cardiology")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Fatal("empty token from register")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Role != models.RoleUser {
		t.Errorf("role = %q, want user", claims.Role)
	}

	loginToken, err := svc.Login("doc@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	loginClaims, err := svc.ValidateToken(loginToken)
	if err != nil {
		t.Fatalf("validate login token: %v", err)
	}
	if loginClaims.UserID != claims.UserID {
		t.Errorf("login user = %d, register user = %d", loginClaims.UserID, claims.UserID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret")

	if _, err := svc.Register("dup@example.com", "secret123", "A", ""); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register("dup@example.com", "other456", "B", ""); err == nil {
		t.Fatal("expected error for duplicate email")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret")

	if _, err := svc.Register("who@example.com", "secret123", "A", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Login("who@example.com", "wrong"); err == nil {
		t.Fatal("expected error for wrong password")
	}
	if _, err := svc.Login("nobody@example.com", "secret123"); err == nil {
		t.Fatal("expected error for unknown email")
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "secret-a")
	other := NewAuthService(db, "secret-b")

	token, err := svc.GenerateToken(1, models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 1 || claims.Role != models.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret")
	user := seedUser(t, db, "prof@example.com")

	if err := svc.UpdateProfile(user.ID, "New Name", "oncology"); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	got, err := svc.GetUser(user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.FullName != "New Name" || got.Specialization != "oncology" {
		t.Errorf("profile = %q/%q", got.FullName, got.Specialization)
	}

	if err := svc.UpdateProfile(99999, "X", ""); err == nil {
		t.Error("expected error for missing user")
	}
}
