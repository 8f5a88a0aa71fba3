package persistence

import (
	"github.com/waterworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// orderable whitelists the columns list queries may sort on. Filter
// values come straight from query strings and must never reach ORDER BY
// unchecked.
var orderable = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"billing_date": true,
	"payment_date": true,
	"reading_date": true,
}

// applyFilter applies pagination and ordering from a shared.Filter
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := filter.OrderBy
	if !orderable[orderBy] {
		orderBy = "created_at"
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}
	query = query.Order(orderBy + " " + dir)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}
	return query
}
