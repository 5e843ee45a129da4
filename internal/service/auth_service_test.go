package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"backend/internal/model"
	"backend/internal/workflow"

	"golang.org/x/crypto/bcrypt"
)

func legacyHash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func TestVerifyPassword(t *testing.T) {
	bcryptHash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	tests := []struct {
		name         string
		stored       string
		password     string
		valid        bool
		needsUpgrade bool
	}{
		{"bcrypt match", string(bcryptHash), "s3cret", true, false},
		{"bcrypt mismatch", string(bcryptHash), "wrong", false, false},
		{"legacy sha256 match", legacyHash("s3cret"), "s3cret", true, true},
		{"legacy sha256 mismatch", legacyHash("s3cret"), "wrong", false, false},
		{"garbage hash", "not-a-hash", "s3cret", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, needsUpgrade := verifyPassword(tt.stored, tt.password)
			if valid != tt.valid || needsUpgrade != tt.needsUpgrade {
				t.Errorf("verifyPassword = (%v, %v), want (%v, %v)", valid, needsUpgrade, tt.valid, tt.needsUpgrade)
			}
		})
	}
}

func TestLoginUpgradesLegacyHash(t *testing.T) {
	users := &fakeUserRepo{}
	user := &model.User{
		Username:     "alice",
		PasswordHash: legacyHash("s3cret"),
		FullName:     "Alice Example",
		Role:         workflow.RoleRequester,
		Department:   "operations",
		IsActive:     true,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	svc := NewAuthService(users)
	result, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if result.Token == "" {
		t.Error("empty token")
	}
	if result.User.Redirect == "" {
		t.Error("empty dashboard redirect")
	}
	if !strings.HasPrefix(user.PasswordHash, "$2") {
		t.Errorf("hash %q not upgraded to bcrypt", user.PasswordHash)
	}
}

func TestLoginFailures(t *testing.T) {
	users := &fakeUserRepo{}
	inactive := &model.User{Username: "carol", PasswordHash: legacyHash("pw"), Role: workflow.RoleFinance}
	if err := users.Create(context.Background(), inactive); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	svc := NewAuthService(users)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "nobody", "pw"},
		{"inactive user", "carol", "pw"},
		{"blank password", "carol", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), LoginRequest{Username: tt.username, Password: tt.password})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}
