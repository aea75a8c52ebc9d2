package database

import (
	"gorm.io/gorm"

	"github.com/campusorgs/oms-api/internal/utils"
)

// Paginate limits a query to one page of results. A zero limit leaves the
// query unpaged.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
