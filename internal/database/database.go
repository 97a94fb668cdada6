package database

import (
	"fmt"
	"strings"

	"github.com/myblog/core/internal/config"
	"github.com/myblog/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database configured for the active profile.
func Connect(cfg *config.AppConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := openDB(cfg, resolveLogLevel(cfg))
	if err != nil {
		return nil, err
	}
	if log != nil {
		log.Named("Database").Debug("database connected",
			zap.String("driver", cfg.Database.Driver),
			zap.String("profile", cfg.Profile),
		)
	}
	return db, nil
}

// CreateAll creates missing tables and columns for every model.
func CreateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// DropAll drops every model table, dependents first.
func DropAll(db *gorm.DB) error {
	all := models.All()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

// Reset drops and recreates the schema.
func Reset(db *gorm.DB) error {
	if err := DropAll(db); err != nil {
		return err
	}
	return CreateAll(db)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("resolve sql db: %w", err)
	}
	return sqlDB.Close()
}

func resolveLogLevel(cfg *config.AppConfig) logger.LogLevel {
	switch cfg.Profile {
	case config.ProfileDevelopment:
		if cfg.Log.Level == "debug" {
			return logger.Info
		}
		return logger.Warn
	case config.ProfileTesting:
		return logger.Silent
	default:
		return logger.Warn
	}
}

// withForeignKeys turns on SQLite foreign key enforcement, which is off by
// default for every new connection.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func openDB(cfg *config.AppConfig, logLevel logger.LogLevel) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}
	dsn := cfg.Database.DSNValue()

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		dialector = mysql.New(mysql.Config{
			DSN:               dsn,
			DefaultStringSize: 191,
		})
	case config.DriverSQLite:
		dialector = sqlite.Open(withForeignKeys(dsn))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if cfg.Database.Driver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("resolve sql db: %w", err)
		}
		// SQLite serializes writers; a single connection also keeps ":memory:" databases alive.
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}
