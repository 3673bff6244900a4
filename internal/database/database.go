package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pontaj-api/internal/config"
	"github.com/pontaj-api/internal/migrations"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const connectAttempts = 30

// Open подключается к БД выбранного драйвера и применяет миграции
func Open(cfg config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	db, err := connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if err := migrations.Up(sqlDB, cfg.Dialect()); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

func dialector(cfg config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == config.DriverSQLite {
		return sqlite.Open(cfg.SQLiteDSN())
	}
	return postgres.Open(cfg.DSN())
}

func connect(cfg config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for attempt := range connectAttempts {
		db, err = gorm.Open(dialector(cfg), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
			TranslateError: true,
		})
		if err == nil {
			sqlDB, _ := db.DB()
			if err = sqlDB.Ping(); err == nil {
				if cfg.Driver == config.DriverSQLite {
					// SQLite допускает только одного писателя
					sqlDB.SetMaxOpenConns(1)
				}
				return db, nil
			}
		}
		logger.Warn("database is not ready",
			slog.String("driver", cfg.Driver),
			slog.Int("attempt", attempt+1),
			slog.Any("error", err),
		)
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectAttempts, err)
}
