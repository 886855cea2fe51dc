package service

import (
	"testing"

	"github.com/threadway-shop/internal/models"
	"github.com/threadway-shop/internal/queue"
	"github.com/threadway-shop/internal/repository"
)

type emailQueueUserRepoStub struct {
	repository.UserRepository
	user *models.User
	err  error
}

func (s emailQueueUserRepoStub) GetByID(_ uint) (*models.User, error) {
	return s.user, s.err
}

func newDisabledQueueClient(t *testing.T) *queue.Client {
	t.Helper()
	client, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestEnqueueOrderStatusEmailSkipsWithoutQueue(t *testing.T) {
	order := &models.Order{ID: 81, UserID: 1}

	skipped, err := enqueueOrderStatusEmailTaskIfEligible(nil, nil, order, "shipped")
	if err != nil {
		t.Fatalf("nil client returned error: %v", err)
	}
	if !skipped {
		t.Fatalf("expected skip without queue client")
	}

	skipped, err = enqueueOrderStatusEmailTaskIfEligible(nil, newDisabledQueueClient(t), order, "shipped")
	if err != nil {
		t.Fatalf("disabled client returned error: %v", err)
	}
	if !skipped {
		t.Fatalf("expected skip with disabled queue client")
	}
}

func TestEnqueueOrderStatusEmailSkipsMissingReceiver(t *testing.T) {
	client := newDisabledQueueClient(t)
	order := &models.Order{ID: 82, UserID: 2}

	skipped, err := enqueueOrderStatusEmailTaskIfEligible(emailQueueUserRepoStub{user: nil}, client, order, "shipped")
	if err != nil {
		t.Fatalf("missing user returned error: %v", err)
	}
	if !skipped {
		t.Fatalf("expected skip for missing user")
	}

	skipped, err = enqueueOrderStatusEmailTaskIfEligible(emailQueueUserRepoStub{user: &models.User{ID: 2, Email: "   "}}, client, order, "shipped")
	if err != nil {
		t.Fatalf("blank email returned error: %v", err)
	}
	if !skipped {
		t.Fatalf("expected skip for blank email")
	}
}

func TestEnqueueOrderStatusEmailSkipsNilOrder(t *testing.T) {
	client := newDisabledQueueClient(t)
	skipped, err := enqueueOrderStatusEmailTaskIfEligible(nil, client, nil, "shipped")
	if err != nil {
		t.Fatalf("nil order returned error: %v", err)
	}
	if !skipped {
		t.Fatalf("expected skip for nil order")
	}
}
