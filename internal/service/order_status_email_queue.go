package service

import (
	"strings"

	"github.com/threadway-shop/internal/models"
	"github.com/threadway-shop/internal/queue"
	"github.com/threadway-shop/internal/repository"
)

// enqueueOrderStatusEmailTaskIfEligible 根据收件邮箱可达性决定是否入队状态邮件任务。
// 返回值 skipped 表示任务被策略跳过（队列未启用或用户无可用邮箱）。
func enqueueOrderStatusEmailTaskIfEligible(userRepo repository.UserRepository, queueClient *queue.Client, order *models.Order, status string) (skipped bool, err error) {
	if queueClient == nil || !queueClient.Enabled() || order == nil || order.ID == 0 {
		return true, nil
	}

	if userRepo != nil {
		user, lookupErr := userRepo.GetByID(order.UserID)
		if lookupErr == nil {
			if user == nil || strings.TrimSpace(user.Email) == "" {
				return true, nil
			}
		}
	}

	if err := queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: order.ID,
		Status:  strings.TrimSpace(status),
	}); err != nil {
		return false, err
	}
	return false, nil
}
