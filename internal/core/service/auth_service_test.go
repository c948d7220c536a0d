package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/facetrack/attendance-system/internal/core/domain"
)

type stubAuthRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]domain.User)}
}

func (s *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return nil, domain.ErrUserExists
	}
	created := *user
	created.ID = "user-" + user.Username
	s.users[user.Username] = created
	return &created, nil
}

func (s *stubAuthRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

const testSecret = "test-secret"

func TestAuthRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), testSecret, 0)
	ctx := context.Background()

	user, err := svc.Register(ctx, "operator", "s3cret-pass", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("role = %s, want admin", user.Role)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Error("password stored in plain text")
	}

	token, logged, err := svc.Login(ctx, "operator", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.Username != "operator" {
		t.Errorf("username = %s, want operator", logged.Username)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["username"] != "operator" || claims["role"] != domain.RoleAdmin {
		t.Errorf("claims = %v", claims)
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("token missing expiry claim")
	}
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), testSecret, 0)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "operator", "correct-pass", domain.RoleKiosk); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Login(ctx, "operator", "wrong-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthLoginUnknownUser(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), testSecret, 0)
	if _, _, err := svc.Login(context.Background(), "ghost", "whatever"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), testSecret, 0)
	ctx := context.Background()

	cases := []struct {
		name                     string
		username, password, role string
	}{
		{"empty username", "", "pass", domain.RoleAdmin},
		{"empty password", "user", "", domain.RoleAdmin},
		{"unknown role", "user", "pass", "superuser"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.username, tc.password, tc.role); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: err = %v, want ErrInvalidCredentials", tc.name, err)
		}
	}
}

func TestAuthRegisterDuplicateUsername(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), testSecret, 0)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "operator", "pass-one", domain.RoleAdmin); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "operator", "pass-two", domain.RoleAdmin); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("err = %v, want ErrUserExists", err)
	}
}
