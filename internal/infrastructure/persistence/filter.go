package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kushukushu/backend/internal/domain/shared"
)

// allowedOrderColumns limits ORDER BY to known columns to prevent injection
var allowedOrderColumns = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"request_number": true,
	"status":         true,
	"branch_id":      true,
	"total_amount":   true,
	"due_date":       true,
	"sale_date":      true,
	"date":           true,
}

// applyFilter applies pagination, ordering and equality filters to a query
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	orderBy := filter.OrderBy
	if !allowedOrderColumns[orderBy] {
		orderBy = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", orderBy, dir))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
