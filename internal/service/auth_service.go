package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/workflow"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- DTOs ---

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID         uuid.UUID     `json:"id"`
	Username   string        `json:"username"`
	FullName   string        `json:"full_name"`
	Role       workflow.Role `json:"role"`
	Department string        `json:"department"`
	Redirect   string        `json:"redirect,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type SignatureResponse struct {
	Signature    string `json:"signature"`
	HasSignature bool   `json:"has_signature"`
}

type ApprovalManagersResponse struct {
	DirectManager               string `json:"direct_manager"`
	DirectManagerPosition       string `json:"direct_manager_position"`
	FinanceManager              string `json:"finance_manager"`
	FinanceManagerPosition      string `json:"finance_manager_position"`
	DisbursementManager         string `json:"disbursement_manager"`
	DisbursementManagerPosition string `json:"disbursement_manager_position"`
}

var ErrInvalidCredentials = errors.New("invalid username or password")

const tokenTTL = 24 * time.Hour

// --- Interface ---

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error)
	GetSignature(ctx context.Context, userID uuid.UUID) (*SignatureResponse, error)
	SaveSignature(ctx context.Context, userID uuid.UUID, signature string) error
	ApprovalManagers(ctx context.Context, department string) (*ApprovalManagersResponse, error)
}

type authService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{users: users}
}

// --- Implementation ---

// verifyPassword accepts both bcrypt hashes and the legacy hex SHA-256
// hashes of the pre-migration database. A legacy match reports
// needsUpgrade so the caller can rewrite the hash in place.
func verifyPassword(storedHash, password string) (valid, needsUpgrade bool) {
	if strings.HasPrefix(storedHash, "$2a$") || strings.HasPrefix(storedHash, "$2b$") || strings.HasPrefix(storedHash, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil, false
	}

	sum := sha256.Sum256([]byte(password))
	legacy := hex.EncodeToString(sum[:])
	if subtle.ConstantTimeCompare([]byte(storedHash), []byte(legacy)) == 1 {
		return true, true
	}
	return false, false
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetActiveByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	valid, needsUpgrade := verifyPassword(user.PasswordHash, password)
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if needsUpgrade {
		if hashed, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); hashErr == nil {
			user.PasswordHash = string(hashed)
			if upErr := s.users.Update(ctx, user); upErr != nil {
				log.Printf("password hash upgrade failed for %s: %v", username, upErr)
			}
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        user.ID.String(),
		"username":   user.Username,
		"role":       string(user.Role),
		"department": user.Department,
		"exp":        time.Now().Add(tokenTTL).Unix(),
	})

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key"
	}

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResponse{
		Token: tokenString,
		User:  toUserResponse(user),
	}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) GetSignature(ctx context.Context, userID uuid.UUID) (*SignatureResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return &SignatureResponse{
		Signature:    user.Signature,
		HasSignature: user.Signature != "",
	}, nil
}

func (s *authService) SaveSignature(ctx context.Context, userID uuid.UUID, signature string) error {
	if strings.TrimSpace(signature) == "" {
		return errors.New("signature is required")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return errors.New("user not found")
	}
	user.Signature = signature
	return s.users.Update(ctx, user)
}

// ApprovalManagers resolves the display names for the approval table of
// a new request: the requester's department manager plus the fixed
// finance and disbursement approvers.
func (s *authService) ApprovalManagers(ctx context.Context, department string) (*ApprovalManagersResponse, error) {
	resp := &ApprovalManagersResponse{}

	if manager, err := s.users.FirstManagerOfDepartment(ctx, department); err == nil {
		resp.DirectManager = manager.FullName
		resp.DirectManagerPosition = "Manager, " + department
	}
	if finance, err := s.users.FirstByRole(ctx, workflow.RoleFinance); err == nil {
		resp.FinanceManager = finance.FullName
		resp.FinanceManagerPosition = "Finance Manager"
	}
	if disbursement, err := s.users.FirstByRole(ctx, workflow.RoleDisbursement); err == nil {
		resp.DisbursementManager = disbursement.FullName
		resp.DisbursementManagerPosition = "Disbursement Officer"
	}

	return resp, nil
}

// --- Helpers ---

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		Role:       user.Role,
		Department: user.Department,
		Redirect:   workflow.DashboardRoute(user.Role),
	}
}
