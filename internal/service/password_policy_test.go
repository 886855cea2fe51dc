package service

import (
	"errors"
	"testing"

	"github.com/threadway-shop/internal/config"
)

func TestValidatePassword(t *testing.T) {
	full := config.PasswordPolicyConfig{
		MinLength:      10,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	tests := []struct {
		name     string
		policy   config.PasswordPolicyConfig
		password string
		wantWeak bool
	}{
		{name: "empty policy accepts anything", policy: config.PasswordPolicyConfig{}, password: "x"},
		{name: "too short", policy: config.PasswordPolicyConfig{MinLength: 8}, password: "abc1234", wantWeak: true},
		{name: "length only ok", policy: config.PasswordPolicyConfig{MinLength: 8}, password: "abcd1234"},
		{name: "multibyte counts runes", policy: config.PasswordPolicyConfig{MinLength: 4}, password: "密码密码"},
		{name: "missing upper", policy: full, password: "weak-pass-123", wantWeak: true},
		{name: "missing number", policy: full, password: "Weak-Pass-Word", wantWeak: true},
		{name: "missing special", policy: config.PasswordPolicyConfig{RequireSpecial: true}, password: "OnlyLetters1", wantWeak: true},
		{name: "all requirements met", policy: full, password: "Str0ng-Passw0rd!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePassword(tt.policy, tt.password)
			if tt.wantWeak {
				if !errors.Is(err, ErrWeakPassword) {
					t.Fatalf("want ErrWeakPassword, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("want ok, got %v", err)
			}
		})
	}
}
