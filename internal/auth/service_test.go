package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/calderagroup/procuremart-backend/pkg/auth"
	"github.com/calderagroup/procuremart-backend/pkg/auth/session"
	"github.com/calderagroup/procuremart-backend/pkg/config"
	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "procuremart",
		ExpirationMinutes: 30,
	}
}

func TestServiceLoginBuyer(t *testing.T) {
	password := "buyer-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "buyer@example.com",
		PasswordHash: mustHashPassword(t, password),
		FirstName:    "Blair",
		LastName:     "Nguyen",
		UserType:     enums.UserTypeBuyer,
		IsActive:     true,
	}
	cfg := testJWTConfig()

	svc, _, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s in claims, got %s", user.ID, claims.UserID)
	}
	if claims.UserType != enums.UserTypeBuyer {
		t.Fatalf("expected buyer claim, got %s", claims.UserType)
	}
	if claims.SupplierID != nil {
		t.Fatalf("expected no supplier claim for buyer, got %s", claims.SupplierID)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token to be set")
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatal("expected user payload in response")
	}
	if user.LastLoginAt == nil {
		t.Fatal("expected last login to be recorded")
	}
}

func TestServiceLoginSupplierCarriesSupplierClaim(t *testing.T) {
	password := "supplier-secret"
	supplierID := uuid.New()
	user := &models.User{
		ID:           uuid.New(),
		Email:        "supplier@example.com",
		PasswordHash: mustHashPassword(t, password),
		FirstName:    "Sam",
		LastName:     "Osei",
		UserType:     enums.UserTypeSupplier,
		IsActive:     true,
		Supplier: &models.SupplierProfile{
			ID:           supplierID,
			BusinessName: "Osei Foods",
		},
	}
	cfg := testJWTConfig()

	svc, _, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.SupplierID == nil || *claims.SupplierID != supplierID {
		t.Fatalf("expected supplier claim %s, got %v", supplierID, claims.SupplierID)
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "buyer@example.com",
		PasswordHash: mustHashPassword(t, "right-password"),
		UserType:     enums.UserTypeBuyer,
		IsActive:     true,
	}

	svc, _, err := buildTestService(user, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginUnknownEmail(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Users:    stubUserRepo{err: gorm.ErrRecordNotFound},
		Sessions: &stubSessionManager{},
		JWT:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginDeactivatedAccount(t *testing.T) {
	password := "deactivated"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "gone@example.com",
		PasswordHash: mustHashPassword(t, password),
		UserType:     enums.UserTypeBuyer,
		IsActive:     false,
	}

	svc, _, err := buildTestService(user, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	cfg := testJWTConfig()
	oldJTI := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		UserType: enums.UserTypeBuyer,
		JTI:      oldJTI,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	sessions := &stubSessionManager{
		rotatedAccessID: "new-jti",
		refreshToken:    "new-refresh",
	}
	svc, err := NewService(ServiceParams{
		Users:    stubUserRepo{},
		Sessions: sessions,
		JWT:      cfg,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), accessToken, RefreshRequest{RefreshToken: "old-refresh"})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if sessions.rotatedFrom != oldJTI {
		t.Fatalf("expected rotation from %s, got %s", oldJTI, sessions.rotatedFrom)
	}
	if resp.RefreshToken != "new-refresh" {
		t.Fatalf("unexpected refresh token %s", resp.RefreshToken)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.ID != "new-jti" {
		t.Fatalf("expected rotated jti, got %s", claims.ID)
	}
}

func TestServiceRefreshInvalidToken(t *testing.T) {
	cfg := testJWTConfig()
	accessToken, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		UserType: enums.UserTypeBuyer,
		JTI:      session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	svc, err := NewService(ServiceParams{
		Users:    stubUserRepo{},
		Sessions: &stubSessionManager{rotateErr: session.ErrInvalidRefreshToken},
		JWT:      cfg,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Refresh(context.Background(), accessToken, RefreshRequest{RefreshToken: "stale"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	cfg := testJWTConfig()
	jti := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		UserType: enums.UserTypeBuyer,
		JTI:      jti,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	sessions := &stubSessionManager{}
	svc, err := NewService(ServiceParams{
		Users:    stubUserRepo{},
		Sessions: sessions,
		JWT:      cfg,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	if err := svc.Logout(context.Background(), accessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.revokedAccessID != jti {
		t.Fatalf("expected revoke of %s, got %s", jti, sessions.revokedAccessID)
	}
}

func buildTestService(user *models.User, jwtCfg config.JWTConfig) (Service, *stubSessionManager, error) {
	sessions := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		Users:    stubUserRepo{user: user},
		Sessions: sessions,
		JWT:      jwtCfg,
	})
	return svc, sessions, err
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	user *models.User
	err  error
}

func (s stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	refreshToken    string
	rotatedAccessID string
	rotatedFrom     string
	rotateErr       error
	revokedAccessID string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	s.rotatedFrom = oldAccessID
	return s.rotatedAccessID, s.refreshToken, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revokedAccessID = accessID
	return nil
}
