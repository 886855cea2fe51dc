package models

import "strconv"

// 购物车归属者类型
const (
	OwnerTypeGuest = "guest"
	OwnerTypeUser  = "user"
)

// CartOwner 购物车归属者（游客或登录用户，二选一）
type CartOwner struct {
	Type       string // guest 或 user
	GuestToken string // 游客令牌（Type=guest 时有效）
	UserID     uint   // 用户ID（Type=user 时有效）
}

// GuestOwner 构造游客归属者
func GuestOwner(token string) CartOwner {
	return CartOwner{Type: OwnerTypeGuest, GuestToken: token}
}

// UserOwner 构造用户归属者
func UserOwner(userID uint) CartOwner {
	return CartOwner{Type: OwnerTypeUser, UserID: userID}
}

// IsUser 是否为登录用户
func (o CartOwner) IsUser() bool {
	return o.Type == OwnerTypeUser
}

// Valid 归属者是否携带有效标识
func (o CartOwner) Valid() bool {
	switch o.Type {
	case OwnerTypeGuest:
		return o.GuestToken != ""
	case OwnerTypeUser:
		return o.UserID > 0
	}
	return false
}

// Key 返回持久化键值对 (owner_type, owner_id)
func (o CartOwner) Key() (string, string) {
	if o.Type == OwnerTypeUser {
		return OwnerTypeUser, strconv.FormatUint(uint64(o.UserID), 10)
	}
	return OwnerTypeGuest, o.GuestToken
}
