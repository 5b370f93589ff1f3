package repository

import (
	"github.com/google/uuid"
	domainRepo "github.com/sangkips/fms-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate takes a row lock on the selected rows. SQLite ignores it.
func ForUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// DocumentFilter applies status and owner filters shared by all document lists
func DocumentFilter(params *domainRepo.DocumentFilterParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			return db
		}
		if params.Status != "" {
			db = db.Where("status = ?", params.Status)
		}
		if params.OwnerID != nil {
			db = db.Where("user_id = ?", *params.OwnerID)
		}
		return db
	}
}

func withOwner(params *domainRepo.DocumentFilterParams, ownerID uuid.UUID) *domainRepo.DocumentFilterParams {
	scoped := domainRepo.DocumentFilterParams{}
	if params != nil {
		scoped = *params
	}
	scoped.OwnerID = &ownerID
	return &scoped
}

// paginate applies page/per-page limits, defaulting when params is nil
func paginate(db *gorm.DB, params *domainRepo.DocumentFilterParams) *gorm.DB {
	if params == nil || params.Pagination == nil {
		return db
	}
	params.Pagination.Validate()
	return db.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage)
}
