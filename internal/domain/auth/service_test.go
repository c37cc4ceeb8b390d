package auth

import (
	"context"
	"testing"
	"time"

	"quotedesk/internal/core/apperror"
	appctx "quotedesk/internal/core/context"
	"quotedesk/internal/core/id"
)

type fakeUserRepo struct {
	byEmail map[string]*User
	updates int
}

func (f *fakeUserRepo) Create(_ context.Context, u *User) error {
	if f.byEmail == nil {
		f.byEmail = make(map[string]*User)
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID id.ID) (*User, error) {
	for _, u := range f.byEmail {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", userID)
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", email)
}

func (f *fakeUserRepo) Update(_ context.Context, _ *User) error {
	f.updates++
	return nil
}

func newTestService(t *testing.T, users ...*User) (*Service, *fakeUserRepo, *JWTService) {
	t.Helper()
	repo := &fakeUserRepo{byEmail: make(map[string]*User)}
	for _, u := range users {
		repo.byEmail[u.Email] = u
	}
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, jwtSvc, DefaultServiceConfig()), repo, jwtSvc
}

func testUser(t *testing.T, email, password string) *User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := NewUser(id.New(), email, hash)
	user.Name = "Test User"
	user.Permissions = map[string]appctx.PermissionSet{
		"quotation": {"read": true, "create": true},
	}
	return user
}

func TestLogin_Success(t *testing.T) {
	user := testUser(t, "alice@example.com", "s3cret-pass")
	svc, repo, jwtSvc := newTestService(t, user)

	result, err := svc.Login(context.Background(), Credentials{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if result.TokenType != "Bearer" {
		t.Fatalf("token type = %q", result.TokenType)
	}
	if repo.updates != 1 {
		t.Fatalf("expected 1 bookkeeping update, got %d", repo.updates)
	}

	// The token must round-trip the identity and the permission map.
	uc, err := jwtSvc.ValidateToken(result.AccessToken)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if uc.UserID != user.ID.String() {
		t.Fatalf("user id = %q, want %q", uc.UserID, user.ID)
	}
	if uc.CompanyID != user.CompanyID.String() {
		t.Fatalf("company id = %q, want %q", uc.CompanyID, user.CompanyID)
	}
	if !uc.Can("quotation", "create") {
		t.Fatal("expected quotation:create grant to survive the token")
	}
	if uc.Can("quotation", "delete") {
		t.Fatal("absent grant must deny")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	user := testUser(t, "alice@example.com", "s3cret-pass")
	svc, _, _ := newTestService(t, user)

	_, err := svc.Login(context.Background(), Credentials{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnauthorized {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
	if user.FailedLoginAttempts != 1 {
		t.Fatalf("failed attempts = %d, want 1", user.FailedLoginAttempts)
	}
}

func TestLogin_UnknownEmailIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), Credentials{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnauthorized {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestLogin_LockoutAfterMaxAttempts(t *testing.T) {
	user := testUser(t, "alice@example.com", "s3cret-pass")
	svc, _, _ := newTestService(t, user)

	for i := 0; i < DefaultServiceConfig().MaxLoginAttempts; i++ {
		_, _ = svc.Login(context.Background(), Credentials{
			Email:    "alice@example.com",
			Password: "wrong",
		})
	}
	if !user.IsLocked() {
		t.Fatal("account should be locked after max failed attempts")
	}

	// Even the correct password is rejected while locked.
	_, err := svc.Login(context.Background(), Credentials{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeForbidden {
		t.Fatalf("expected Forbidden while locked, got %v", err)
	}
}

func TestLogin_DisabledAccount(t *testing.T) {
	user := testUser(t, "alice@example.com", "s3cret-pass")
	user.IsActive = false
	svc, _, _ := newTestService(t, user)

	_, err := svc.Login(context.Background(), Credentials{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeForbidden {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	jwtSvc := NewJWTService(cfg)

	user := testUser(t, "alice@example.com", "s3cret-pass")
	token, _, err := jwtSvc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := jwtSvc.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	user := testUser(t, "alice@example.com", "s3cret-pass")
	token, _, err := NewJWTService(DefaultJWTConfig("secret-a")).GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewJWTService(DefaultJWTConfig("secret-b")).ValidateToken(token); err == nil {
		t.Fatal("expected signature mismatch to be rejected")
	}
}
