package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/logger"
)

const tablePrefix = "lente_console."

var SchemaRegistry []interface{}

func RegisterSchemaForAutoMigrate(models ...interface{}) {
	SchemaRegistry = append(SchemaRegistry, models...)
}

// Config holds database configuration
type Config struct {
	DatabaseURL     string
	DatabaseReadURL string
	MaxIdle         int
	MaxOpen         int
	MaxLifetime     time.Duration
	LogLevel        gormlogger.LogLevel
}

// Connect creates a new database connection with the given configuration.
// When a read replica URL is set, reads are routed to it via dbresolver.
func Connect(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   tablePrefix,
			SingularTable: false,
		},
		Logger:         gormlogger.Default.LogMode(cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		log := logger.GetLogger()
		log.Error().
			Str("error_code", "8e01d6a2-4f7b-41c8-9c2e-6b5a2f0d9e17").
			Err(err).
			Msg("unable to connect to database")
		return nil, err
	}

	if cfg.DatabaseReadURL != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(cfg.DatabaseReadURL)},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("failed to register read replica: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)

	log := logger.GetLogger()
	log.Info().Msg("Successfully connected to database")
	return db, nil
}

// NewDB creates a new database connection using DSN pair with pool defaults.
func NewDB(dsn, readDSN string) (*gorm.DB, error) {
	return Connect(Config{
		DatabaseURL:     dsn,
		DatabaseReadURL: readDSN,
		MaxIdle:         10,
		MaxOpen:         25,
		MaxLifetime:     1 * time.Hour,
		LogLevel:        gormlogger.Silent,
	})
}

type DatabaseMigration struct {
	gorm.Model
	Version string `gorm:"not null;uniqueIndex"`
}

// Migration bootstraps the schema and auto-migrates every registered model.
func Migration(db *gorm.DB) error {
	schemaName := tablePrefix[:len(tablePrefix)-1]

	if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s;", schemaName)).Error; err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if err := db.AutoMigrate(&DatabaseMigration{}); err != nil {
		return fmt.Errorf("failed to create 'database_migration' table: %w", err)
	}
	for _, model := range SchemaRegistry {
		if err := db.AutoMigrate(model); err != nil {
			log := logger.GetLogger()
			log.Error().
				Str("error_code", "c91f2a34-08dd-40b2-a1c5-7de84f6b2d03").
				Err(err).
				Msgf("failed to auto migrate schema: %T", model)
			return err
		}
	}
	return nil
}
