package service

import (
	"strings"

	"github.com/threadway-shop/internal/models"
)

// allowedTransitions 订单状态流转表
// processing → shipped → delivered；cancelled 只能从 processing/shipped 进入
var allowedTransitions = map[string]map[string]bool{
	models.OrderStatusProcessing: {
		models.OrderStatusShipped:   true,
		models.OrderStatusCancelled: true,
	},
	models.OrderStatusShipped: {
		models.OrderStatusDelivered: true,
		models.OrderStatusCancelled: true,
	},
	models.OrderStatusDelivered: {},
	models.OrderStatusCancelled: {},
}

// normalizeOrderStatus 归一化状态值，非法返回空串
func normalizeOrderStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case models.OrderStatusProcessing:
		return models.OrderStatusProcessing
	case models.OrderStatusShipped:
		return models.OrderStatusShipped
	case models.OrderStatusDelivered:
		return models.OrderStatusDelivered
	case models.OrderStatusCancelled:
		return models.OrderStatusCancelled
	}
	return ""
}

// canTransition 判断状态流转是否合法
func canTransition(from, to string) bool {
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}
