// Package database owns the GORM connection and the registry of persisted
// models that feeds the query generator.
package database

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"agenthub/services/agent-api/internal/infrastructure/logger"
)

// All service tables live in their own Postgres schema, separate from the
// other platform services sharing the database.
const schemaName = "agent_api"

// SchemaRegistry collects every persisted model. Schema packages register
// themselves at init time and cmd/gormgen walks the registry to emit typed
// query helpers.
var SchemaRegistry []interface{}

func RegisterSchema(models ...interface{}) {
	SchemaRegistry = append(SchemaRegistry, models...)
}

// Config carries connection settings resolved from the environment.
type Config struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	Verbose         bool
}

// Connect opens the write connection. All tables live in the agent_api
// schema, so the naming strategy prefixes every generated table name.
func Connect(cfg Config) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if cfg.Verbose {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   schemaName + ".",
			SingularTable: false,
		},
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		logger.GetLogger().Error().
			Str("error_code", "5c16fb53-d98c-4fc6-8bb4-9abd3c0b9e88").
			Err(err).
			Msg("unable to connect to database")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	logger.GetLogger().Info().Msg("Successfully connected to database")
	return db, nil
}
