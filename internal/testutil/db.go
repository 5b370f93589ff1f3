// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/sangkips/fms-api/internal/infrastructure/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to t
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.NewSQLiteDB(dsn, "silent")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with role and returns it
func CreateUser(t *testing.T, db *gorm.DB, name string, role enum.Role) *entity.User {
	t.Helper()

	user := &entity.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Role:         role,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
