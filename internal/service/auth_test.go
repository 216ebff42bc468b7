package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/festo/gala/api/internal/database"
	"github.com/festo/gala/api/internal/model"
	"github.com/festo/gala/api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// ============================================================================
// Mock user repository
// ============================================================================

type mockUserRepo struct {
	createFunc     func(ctx context.Context, user *model.User) error
	getByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "user:new"
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, database.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, database.ErrNotFound
}

func newTestAuthService(repo *mockUserRepo) *AuthService {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	tokens := jwt.NewTestService(key, "gala.festo.app", 15*time.Minute)
	return NewAuthService(repo, tokens)
}

// ============================================================================
// Register
// ============================================================================

func TestRegisterIssuesToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(&mockUserRepo{})

	result, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "Pat@Example.com",
		Password:    "correct horse battery",
		DisplayName: "Pat",
		Role:        "supplier",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if result.User.Email != "pat@example.com" {
		t.Errorf("email not normalized: %q", result.User.Email)
	}
	if result.User.Role != model.UserRoleSupplier {
		t.Errorf("role: expected supplier, got %q", result.User.Role)
	}
	if result.AccessToken == "" {
		t.Error("expected an access token")
	}
	if result.ExpiresIn != 900 {
		t.Errorf("expires_in: expected 900, got %d", result.ExpiresIn)
	}
	if result.User.Hash == nil || !strings.HasPrefix(*result.User.Hash, "$2a$") {
		t.Error("expected a bcrypt hash on the stored user")
	}
}

func TestRegisterDefaultsToCustomer(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(&mockUserRepo{})

	result, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "pat@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.User.Role != model.UserRoleCustomer {
		t.Errorf("expected customer role, got %q", result.User.Role)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "pat@example.com",
		Password: "correct horse battery",
		Role:     "admin",
	})
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(&mockUserRepo{})

	cases := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"missing at", "patexample.com", "longenough", ErrInvalidEmail},
		{"bare domain", "pat@", "longenough", ErrInvalidEmail},
		{"no tld", "pat@example", "longenough", ErrInvalidEmail},
		{"short password", "pat@example.com", "short", ErrPasswordTooShort},
		{"long password", "pat@example.com", strings.Repeat("x", 129), ErrPasswordTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), RegisterRequest{Email: tc.email, Password: tc.password})
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{
		createFunc: func(ctx context.Context, user *model.User) error {
			return database.ErrDuplicate
		},
	}
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "pat@example.com",
		Password: "correct horse battery",
	})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

// ============================================================================
// Login
// ============================================================================

func storedUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	hashStr := string(hash)
	return &model.User{
		ID:    "user:stored",
		Email: "pat@example.com",
		Hash:  &hashStr,
		Role:  model.UserRoleCustomer,
	}
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	user := storedUser(t, "correct horse battery")
	repo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			if email != "pat@example.com" {
				return nil, database.ErrNotFound
			}
			return user, nil
		},
	}
	svc := newTestAuthService(repo)

	result, err := svc.Login(context.Background(), "  Pat@Example.COM ", "correct horse battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.User.ID != "user:stored" {
		t.Errorf("unexpected user: %q", result.User.ID)
	}
	if result.AccessToken == "" {
		t.Error("expected an access token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	user := storedUser(t, "correct horse battery")
	repo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return user, nil
		},
	}
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "pat@example.com", "wrong password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(&mockUserRepo{})

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginFederatedAccountHasNoPassword(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user:fed", Email: email, Role: model.UserRoleCustomer}, nil
		},
	}
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "pat@example.com", "any password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// ============================================================================
// Token claims
// ============================================================================

func TestIssuedTokenCarriesRoleClaim(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	tokens := jwt.NewTestService(key, "gala.festo.app", 15*time.Minute)
	svc := NewAuthService(&mockUserRepo{}, tokens)

	result, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "pat@example.com",
		Password: "correct horse battery",
		Role:     "supplier",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	claims, err := tokens.Validate(result.AccessToken)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Role != "supplier" {
		t.Errorf("role claim: expected supplier, got %q", claims.Role)
	}
	if claims.UserID != result.User.ID {
		t.Errorf("user_id claim: expected %q, got %q", result.User.ID, claims.UserID)
	}
}
