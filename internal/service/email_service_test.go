package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/threadway-shop/internal/config"
	"github.com/threadway-shop/internal/models"

	"github.com/shopspring/decimal"
)

func TestBuildOrderStatusContent(t *testing.T) {
	tests := []struct {
		name                string
		locale              string
		status              string
		wantSubjectContains []string
		wantBodyContains    []string
	}{
		{
			name:                "shipped_en",
			locale:              "en-US",
			status:              "shipped",
			wantSubjectContains: []string{"Order status update", "shipped"},
			wantBodyContains:    []string{"TW-TEST-1", "shipped", "19.80"},
		},
		{
			name:                "delivered_zh",
			locale:              "zh-CN",
			status:              "delivered",
			wantSubjectContains: []string{"订单状态更新", "已送达"},
			wantBodyContains:    []string{"TW-TEST-1", "已送达"},
		},
		{
			name:                "cancelled_zh",
			locale:              "zh-CN",
			status:              "cancelled",
			wantSubjectContains: []string{"已取消"},
			wantBodyContains:    []string{"已取消"},
		},
		{
			name:                "unknown_locale_falls_back_to_en",
			locale:              "fr-FR",
			status:              "processing",
			wantSubjectContains: []string{"Order status update", "processing"},
			wantBodyContains:    []string{"TW-TEST-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := OrderStatusEmailInput{
				OrderNo: "TW-TEST-1",
				Status:  tt.status,
				Amount:  models.NewMoneyFromDecimal(decimal.NewFromFloat(19.8)),
			}
			subject, body := buildOrderStatusContent(input, tt.locale)
			for _, expected := range tt.wantSubjectContains {
				if !strings.Contains(subject, expected) {
					t.Fatalf("subject missing %q: %s", expected, subject)
				}
			}
			for _, expected := range tt.wantBodyContains {
				if !strings.Contains(body, expected) {
					t.Fatalf("body missing %q: %s", expected, body)
				}
			}
		})
	}
}

func TestSendTextEmailConfigGuards(t *testing.T) {
	disabled := NewEmailService(&config.EmailConfig{Enabled: false})
	if err := disabled.SendCustomEmail("buyer@example.com", "s", "b"); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("disabled service want ErrEmailServiceDisabled, got %v", err)
	}

	unconfigured := NewEmailService(&config.EmailConfig{Enabled: true})
	if err := unconfigured.SendCustomEmail("buyer@example.com", "s", "b"); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("unconfigured service want ErrEmailServiceNotConfigured, got %v", err)
	}

	configured := NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp.example.com", Port: 587, From: "shop@example.com"})
	if err := configured.SendCustomEmail("not-an-email", "s", "b"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("bad recipient want ErrInvalidEmail, got %v", err)
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "rcpt refused", err: errors.New("554 RCPT TO rejected"), want: true},
		{name: "mailbox unavailable", err: errors.New("550 mailbox unavailable"), want: true},
		{name: "unrelated", err: errors.New("dial tcp: connection refused"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeEmailSendError(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Fatalf("nil error should stay nil, got %v", got)
				}
				return
			}
			if errors.Is(got, ErrEmailRecipientRejected) != tt.want {
				t.Fatalf("recipient-rejected=%v want %v, err=%v", !tt.want, tt.want, got)
			}
		})
	}
}
