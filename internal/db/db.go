package db

import (
	"errors"
	"fmt"
	"time"

	"catalog-admin/internal/models"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options returns the gorm configuration shared by every dialect the
// service runs on. Unique-index violations come back as gorm.ErrDuplicatedKey.
func Options(logger zerolog.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		IgnoreRelationshipsWhenMigrating:         true,
		Logger: gormlogger.New(gormWriter{logger: logger}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

func InitDB(dbURL string, logger zerolog.Logger) (*gorm.DB, error) {
	if dbURL == "" {
		return nil, errors.New("DB_URL is required")
	}

	dsn, err := mysql.ParseDSN(dbURL)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_URL: %w", err)
	}
	dsn.ParseTime = true
	if dsn.Loc == nil {
		dsn.Loc = time.UTC
	}

	database, err := gorm.Open(gormmysql.New(gormmysql.Config{
		DSN:       dsn.FormatDSN(),
		DSNConfig: dsn,
	}), Options(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database is not responding: %w", err)
	}

	logger.Info().Str("addr", dsn.Addr).Str("db", dsn.DBName).Msg("Connected to database")
	return database, nil
}

func RunMigrations(database *gorm.DB) error {
	if err := database.AutoMigrate(
		&models.Admin{},
		&models.Category{},
		&models.Product{},
		&models.Comment{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func Close(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormWriter struct {
	logger zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn().Str("component", "gorm").Msgf(format, args...)
}
