package db

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"vendas-report/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	GormDB  *gorm.DB
	PgxPool *pgxpool.Pool
)

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// LoadConfigFromEnv reads the connection settings. Persistence is optional:
// with none of the variables set it returns (nil, nil) and the service runs
// from memory alone; a partial set is a configuration error.
func LoadConfigFromEnv() (*DBConfig, error) {
	cfg := &DBConfig{}

	vars := map[string]*string{
		"DB_USER": &cfg.User,
		"DB_PASS": &cfg.Password,
		"DB_HOST": &cfg.Host,
		"DB_PORT": &cfg.Port,
		"DB_NAME": &cfg.DBName,
	}

	var missingVars []string
	for env, ptr := range vars {
		if value, found := os.LookupEnv(env); found {
			*ptr = value
		} else {
			missingVars = append(missingVars, env)
		}
	}

	if len(missingVars) == len(vars) {
		return nil, nil
	}
	if len(missingVars) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return cfg, nil
}

func (c *DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		url.QueryEscape(c.Host),
		url.QueryEscape(c.Port),
		url.QueryEscape(c.DBName),
	)
}

func (c *DBConfig) NoPassDSN() string {
	return strings.Replace(c.DSN(), url.QueryEscape(c.Password), "****", 1)
}

// Enabled reports whether persistence was configured.
func Enabled() bool {
	return GormDB != nil
}

// Init connects gorm (batch bookkeeping) and a pgx pool (bulk event
// archive) when persistence is configured. A nil return with Enabled()
// false means the service runs without a database.
func Init(ctx context.Context) error {
	dbConfig, err := LoadConfigFromEnv()
	if err != nil {
		return err
	}
	if dbConfig == nil {
		log.Info().Msg("DB: persistence not configured, running in-memory only")
		return nil
	}

	dsn := dbConfig.DSN()
	log.Info().Msgf("DB-GORM: Connecting to database: %s", dbConfig.NoPassDSN())
	GormDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		return fmt.Errorf("DB-GORM: failed to connect: %w", err)
	}
	if err := GormDB.AutoMigrate(&models.BatchRecord{}); err != nil {
		return fmt.Errorf("DB-GORM: failed to migrate: %w", err)
	}

	PgxPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("DB-PGX: failed to create pool: %w", err)
	}
	if _, err := PgxPool.Exec(ctx, createOrderEventsDDL); err != nil {
		return fmt.Errorf("DB-PGX: failed to create order_events: %w", err)
	}

	log.Info().Msg("DB: Connected to database")
	return nil
}

const createOrderEventsDDL = `CREATE TABLE IF NOT EXISTS order_events (
	id INT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	batch_id VARCHAR(36) NOT NULL,
	seq INT NOT NULL,
	request TEXT,
	response INT,
	produto TEXT,
	qtde INT,
	data TEXT,
	hora TEXT,
	valor_unitario DOUBLE PRECISION,
	valor_total DOUBLE PRECISION,
	mesa TEXT,
	arquivo_origem TEXT,
	confirmation_id TEXT
)`
