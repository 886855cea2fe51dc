package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/threadway-shop/internal/config"
	"github.com/threadway-shop/internal/models"
	"github.com/threadway-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T) (*UserAuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.UserJWT = config.JWTConfig{
		SecretKey:             "user-auth-test-secret-key-0123456789",
		ExpireHours:           24,
		RememberMeExpireHours: 168,
	}
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{MinLength: 8}
	return NewUserAuthService(cfg, repository.NewUserRepository(db)), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	user, token, expiresAt, err := svc.Register("Buyer@Example.com", "correct-horse-1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "buyer@example.com" {
		t.Fatalf("email should be normalized, got %q", user.Email)
	}
	if user.DisplayName != "buyer" {
		t.Fatalf("display name derived from email, got %q", user.DisplayName)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("register should issue a token, token=%q expires=%v", token, expiresAt)
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	logged, loginToken, _, err := svc.Login("buyer@example.com", "correct-horse-1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID || loginToken == "" {
		t.Fatalf("login mismatch: id=%d token=%q", logged.ID, loginToken)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	if _, _, _, err := svc.Register("not-an-email", "correct-horse-1"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("bad email want ErrInvalidEmail, got %v", err)
	}
	if _, _, _, err := svc.Register("short@example.com", "tiny"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("short password want ErrWeakPassword, got %v", err)
	}

	if _, _, _, err := svc.Register("taken@example.com", "correct-horse-1"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, _, err := svc.Register("TAKEN@example.com", "correct-horse-1"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email want ErrEmailTaken, got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)
	user, _, _, err := svc.Register("login@example.com", "correct-horse-1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, _, err := svc.Login("login@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "correct-horse-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email want ErrInvalidCredentials, got %v", err)
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("status", "disabled").Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("login@example.com", "correct-horse-1"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("disabled user want ErrUserDisabled, got %v", err)
	}
}

func TestLoginRememberMeExtendsExpiry(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)
	if _, _, _, err := svc.Register("remember@example.com", "correct-horse-1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, normalExpiry, err := svc.LoginWithRememberMe("remember@example.com", "correct-horse-1", false)
	if err != nil {
		t.Fatalf("normal login failed: %v", err)
	}
	_, _, longExpiry, err := svc.LoginWithRememberMe("remember@example.com", "correct-horse-1", true)
	if err != nil {
		t.Fatalf("remember-me login failed: %v", err)
	}
	if !longExpiry.After(normalExpiry.Add(24 * time.Hour)) {
		t.Fatalf("remember-me expiry should be much later: %v vs %v", longExpiry, normalExpiry)
	}
}

func TestChangePasswordBumpsTokenVersion(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)
	user, _, _, err := svc.Register("rotate@example.com", "correct-horse-1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "wrong-old", "next-horse-2"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("wrong old password want ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "correct-horse-1", "tiny"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak new password want ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "correct-horse-1", "next-horse-2"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	updated, err := svc.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if updated.TokenVersion != user.TokenVersion+1 {
		t.Fatalf("token version want %d, got %d", user.TokenVersion+1, updated.TokenVersion)
	}
	if updated.TokenInvalidBefore == nil {
		t.Fatalf("token invalid-before should be stamped")
	}

	if _, _, _, err := svc.Login("rotate@example.com", "next-horse-2"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)
	user, _, _, err := svc.Register("profile@example.com", "correct-horse-1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	nickname := "River"
	locale := "zh-CN"
	updated, err := svc.UpdateProfile(user.ID, &nickname, &locale)
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.DisplayName != "River" || updated.Locale != "zh-CN" {
		t.Fatalf("profile not applied: %+v", updated)
	}

	// 空白值不覆盖现有资料
	blank := "  "
	unchanged, err := svc.UpdateProfile(user.ID, &blank, nil)
	if err != nil {
		t.Fatalf("blank update failed: %v", err)
	}
	if unchanged.DisplayName != "River" {
		t.Fatalf("blank nickname must not overwrite, got %q", unchanged.DisplayName)
	}

	if _, err := svc.UpdateProfile(9999, &nickname, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user want ErrNotFound, got %v", err)
	}
}
