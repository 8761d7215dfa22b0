package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/allisson/linkvault/internal/auth/repository"
	authUseCase "github.com/allisson/linkvault/internal/auth/usecase"
	"github.com/allisson/linkvault/internal/database"
	"github.com/allisson/linkvault/internal/http"
)

// Ledger drivers accepted in DB_DRIVER.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = database.SQLiteDriver
	DriverMongoDB  = "mongodb"
)

// DB returns the SQL connection behind the ledger. It fails for the memory and
// mongodb drivers.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// MongoClient returns the MongoDB client used by the mongodb ledger driver.
func (c *Container) MongoClient() (*mongo.Client, error) {
	var err error
	c.mongoClientInit.Do(func() {
		c.mongoClient, err = database.ConnectMongo(
			context.Background(),
			c.config.DBConnectionString,
			c.config.DBConnectTimeout,
		)
		if err != nil {
			c.initErrors["mongoClient"] = fmt.Errorf("failed to connect to mongodb: %w", err)
		}
	})
	if storedErr, exists := c.initErrors["mongoClient"]; exists {
		return nil, storedErr
	}
	return c.mongoClient, nil
}

// RedemptionRepository returns the redemption ledger selected by DB_DRIVER.
func (c *Container) RedemptionRepository() (authUseCase.RedemptionRepository, error) {
	var err error
	c.redemptionRepositoryInit.Do(func() {
		c.redemptionRepository, err = c.initRedemptionRepository()
		if err != nil {
			c.initErrors["redemptionRepository"] = err
		}
	})
	if storedErr, exists := c.initErrors["redemptionRepository"]; exists {
		return nil, storedErr
	}
	return c.redemptionRepository, nil
}

func (c *Container) initDB() (*sql.DB, error) {
	switch c.config.DBDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return nil, fmt.Errorf("database driver %q has no sql connection", c.config.DBDriver)
	}

	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		ConnectTimeout:     c.config.DBConnectTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) initRedemptionRepository() (authUseCase.RedemptionRepository, error) {
	switch c.config.DBDriver {
	case DriverMemory:
		c.Logger().Warn("using the in-memory redemption ledger; redeemed links are forgotten on restart")
		return repository.NewMemoryRedemptionRepository(), nil
	case DriverMongoDB:
		client, err := c.MongoClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get mongodb client for redemption repository: %w", err)
		}
		repo := repository.NewMongoDBRedemptionRepository(client.Database(c.config.MongoDatabase))
		if err := repo.EnsureIndexes(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to create redemption indexes: %w", err)
		}
		return repo, nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for redemption repository: %w", err)
	}

	switch c.config.DBDriver {
	case DriverPostgres:
		return repository.NewPostgreSQLRedemptionRepository(db), nil
	case DriverMySQL:
		return repository.NewMySQLRedemptionRepository(db), nil
	case DriverSQLite:
		return repository.NewSQLiteRedemptionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// readinessChecks pings whichever ledger backend has been initialized.
func (c *Container) readinessChecks() map[string]http.ReadinessCheck {
	checks := make(map[string]http.ReadinessCheck)
	if c.db != nil {
		checks["ledger"] = c.db.PingContext
	}
	if c.mongoClient != nil {
		client := c.mongoClient
		checks["ledger"] = func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}
	}
	return checks
}
