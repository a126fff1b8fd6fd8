package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"college-schedule/backend/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate подготавливает схему: для PostgreSQL: SQL-миграции,
// для SQLite: AutoMigrate по моделям.
func Migrate(db *gorm.DB, driver string, logger *zap.Logger) error {
	if driver == DriverSQLite {
		if err := db.AutoMigrate(&model.GroupSchedule{}); err != nil {
			return fmt.Errorf("AutoMigrate: %w", err)
		}
		logger.Info("схема SQLite подготовлена")
		return nil
	}
	return RunMigrations(db, logger)
}

// RunMigrations применяет все ещё не выполненные миграции
func RunMigrations(db *gorm.DB, logger *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("получение sql.DB: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("загрузка файлов миграций: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("драйвер миграций: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("инициализация миграций: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("выполнение миграций: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		logger.Warn("миграции в состоянии dirty", zap.Uint("version", version))
	} else {
		logger.Info("миграции выполнены", zap.Uint("version", version))
	}

	return nil
}
