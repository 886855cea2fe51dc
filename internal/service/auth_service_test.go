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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{
		SecretKey:   "admin-auth-test-secret-key-0123456789",
		ExpireHours: 24,
	}
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{MinLength: 8}
	return NewAuthService(cfg, repository.NewAdminRepository(db)), db
}

func createTestAdmin(t *testing.T, db *gorm.DB, username, password string) *models.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	return admin
}

func TestAdminLogin(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, db, "ops-admin", "admin-pass-123")

	admin, token, expiresAt, err := svc.Login("ops-admin", "admin-pass-123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("login should issue a token, token=%q expires=%v", token, expiresAt)
	}
	if admin.LastLoginAt == nil {
		t.Fatalf("last login timestamp not set")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "ops-admin" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, _, _, err := svc.Login("ops-admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody", "admin-pass-123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown admin want ErrInvalidCredentials, got %v", err)
	}
}

func TestAdminChangePassword(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	admin := createTestAdmin(t, db, "rotate-admin", "admin-pass-123")

	if err := svc.ChangePassword(admin.ID, "wrong-old", "admin-pass-456"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("wrong old password want ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(admin.ID, "admin-pass-123", "tiny"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak new password want ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(admin.ID+100, "admin-pass-123", "admin-pass-456"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing admin want ErrNotFound, got %v", err)
	}

	if err := svc.ChangePassword(admin.ID, "admin-pass-123", "admin-pass-456"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	var updated models.Admin
	if err := db.First(&updated, admin.ID).Error; err != nil {
		t.Fatalf("reload admin failed: %v", err)
	}
	if updated.TokenVersion != admin.TokenVersion+1 || updated.TokenInvalidBefore == nil {
		t.Fatalf("token revocation markers not set: %+v", updated)
	}

	if _, _, _, err := svc.Login("rotate-admin", "admin-pass-456"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
