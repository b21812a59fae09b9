package infrastructure

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"agenthub/services/agent-api/internal/config"
	"agenthub/services/agent-api/internal/domain/agent"
	"agenthub/services/agent-api/internal/infrastructure/auth"
	"agenthub/services/agent-api/internal/infrastructure/crontab"
	"agenthub/services/agent-api/internal/infrastructure/database"
	"agenthub/services/agent-api/internal/infrastructure/database/repository"
	"agenthub/services/agent-api/internal/infrastructure/database/transaction"
	"agenthub/services/agent-api/internal/infrastructure/inference"
	"agenthub/services/agent-api/internal/infrastructure/logger"
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideKeycloakValidator provides a JWT validator
func ProvideKeycloakValidator(cfg *config.Config, log zerolog.Logger) (*auth.KeycloakValidator, error) {
	ctx := context.Background()
	jwksURL, err := cfg.ResolveJWKSURL(ctx)
	if err != nil {
		return nil, err
	}
	return auth.NewKeycloakValidator(
		ctx,
		jwksURL,
		cfg.Issuer,
		cfg.Audience,
		cfg.AuthorizedParty,
		cfg.RefreshJWKSInterval,
		cfg.AuthClockSkew,
		log,
	)
}

// ProvideDatabase provides a database connection
func ProvideDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(database.Config{
		DSN:             cfg.GetDatabaseWriteDSN(),
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		Verbose:         config.IsDev(),
	})
	if err != nil {
		return nil, err
	}

	// Route read traffic to the replica when one is configured
	if readDSN := cfg.GetDatabaseReadDSN(); readDSN != "" {
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(readDSN)},
		})); err != nil {
			log.Error().Err(err).Msg("Failed to register read replica")
			return nil, err
		}
		log.Info().Msg("Registered read replica for database reads")
	}

	// Run migrations if AUTO_MIGRATE is enabled
	if cfg.AutoMigrate {
		log.Info().Msg("Running database migrations...")
		if err := database.AutoMigrate(db); err != nil {
			log.Error().Err(err).Msg("Failed to run database migrations")
			return nil, err
		}
		log.Info().Msg("Database migrations completed successfully")
	}

	return db, nil
}

// ProvideTransactionDatabase provides a transaction database wrapper
func ProvideTransactionDatabase(db *gorm.DB) *transaction.Database {
	return transaction.NewDatabase(db)
}

// ProvideTxRunner exposes the transaction wrapper to domain services
func ProvideTxRunner(db *transaction.Database) agent.TxRunner {
	return db
}

// Infrastructure holds all infrastructure dependencies
type Infrastructure struct {
	DB                *gorm.DB
	KeycloakValidator *auth.KeycloakValidator
	Logger            zerolog.Logger
}

// NewInfrastructure creates a new infrastructure instance
func NewInfrastructure(
	db *gorm.DB,
	keycloakValidator *auth.KeycloakValidator,
	logger zerolog.Logger,
) *Infrastructure {
	return &Infrastructure{
		DB:                db,
		KeycloakValidator: keycloakValidator,
		Logger:            logger,
	}
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideConfig,

	// Database
	ProvideDatabase,
	ProvideTransactionDatabase,
	ProvideTxRunner,

	// Repositories
	repository.RepositoryProvider,

	// Outbound LLM adapters
	inference.NewModelConnectivityChecker,
	inference.NewNameSuggester,

	// Logger
	logger.GetLogger,

	// Keycloak
	ProvideKeycloakValidator,

	// Crontab for connectivity and invitation sweeps
	crontab.NewCrontab,

	// Infrastructure struct
	NewInfrastructure,
)
