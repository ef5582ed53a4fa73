package principal

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForCompany returns a GORM scope that filters by company_id. Every
// employee query goes through it so cross-tenant rows are invisible.
func ForCompany(companyID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
