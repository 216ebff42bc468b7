package service

import (
	"context"
	"errors"
	"strings"

	"github.com/festo/gala/api/internal/database"
	"github.com/festo/gala/api/internal/model"
	"github.com/festo/gala/api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const (
	// bcrypt cost factor (10-14 recommended for production)
	bcryptCost = 12

	// Password constraints
	minPasswordLength = 8
	maxPasswordLength = 128
)

// AuthUserRepository defines the interface for user identity storage
type AuthUserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService handles registration and credential verification
type AuthService struct {
	userRepo AuthUserRepository
	tokens   *jwt.Service
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo AuthUserRepository, tokens *jwt.Service) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

// AuthResult represents a successful registration or login
type AuthResult struct {
	User        *model.User
	AccessToken string
	ExpiresIn   int
}

// Register creates a new user account with email/password. Accounts can only
// self-register as customer or supplier; admin accounts are minted out of band.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	role := model.UserRole(req.Role)
	if req.Role == "" {
		role = model.UserRoleCustomer
	}
	if role != model.UserRoleCustomer && role != model.UserRoleSupplier {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &model.User{
		Email: email,
		Hash:  &hashStr,
		Role:  role,
	}
	if name := strings.TrimSpace(req.DisplayName); name != "" {
		user.DisplayName = &name
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return s.issue(user)
}

// Login verifies email/password credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Federated accounts have no local hash and cannot password-login
	if user.Hash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.Hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// GetUser retrieves a user by ID for the /me endpoint
func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	claims := jwt.Claims{
		Subject: user.ID,
		UserID:  user.ID,
		Email:   user.Email,
		Role:    string(user.Role),
	}
	if user.DisplayName != nil {
		claims.Username = *user.DisplayName
	}

	token, err := s.tokens.Sign(claims)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int(s.tokens.GetExpiration().Seconds()),
	}, nil
}

func isValidEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}
