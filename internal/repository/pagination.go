package repository

import "gorm.io/gorm"

// applyPagination 应用分页参数；pageSize<=0 表示不分页，由 handler 层负责上限裁剪。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return query.Limit(pageSize).Offset(offset)
}
