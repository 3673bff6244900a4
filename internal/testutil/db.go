// Package testutil содержит помощники для тестов с настоящей БД SQLite
package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/pontaj-api/internal/config"
	"github.com/pontaj-api/internal/database"
	"github.com/pontaj-api/internal/domain"
	"gorm.io/gorm"
)

// DiscardLogger - логгер, не пишущий ничего
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewDB создаёт файл SQLite во временной директории и применяет миграции
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := database.Open(cfg, DiscardLogger())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SeedUser создаёт пользователя напрямую через gorm
func SeedUser(t *testing.T, db *gorm.DB, id, email string) *domain.User {
	t.Helper()
	user := &domain.User{ID: id, Email: email, PasswordHash: "x", Name: id}
	if err := db.WithContext(context.Background()).Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedBusiness создаёт фирму пользователя
func SeedBusiness(t *testing.T, db *gorm.DB, id, ownerUserID string) *domain.Business {
	t.Helper()
	biz := &domain.Business{ID: id, OwnerUserID: ownerUserID, Name: id, LocationName: domain.DefaultLocationName}
	if err := db.WithContext(context.Background()).Create(biz).Error; err != nil {
		t.Fatalf("seed business: %v", err)
	}
	return biz
}
