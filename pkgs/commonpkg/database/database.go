package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

const (
	DATABASE_TYPE_SQLITE   = "sqlite"
	DATABASE_TYPE_POSTGRES = "postgres"
)

// Config selects the backing database for the embedding cache.
type Config struct {
	Type string `yaml:"type"` // "sqlite" or "postgres"

	Host     string `yaml:"host"`     // For PostgreSQL
	Port     string `yaml:"port"`     // For PostgreSQL
	User     string `yaml:"user"`     // For PostgreSQL
	Password string `yaml:"password"` // For PostgreSQL
	DBName   string `yaml:"dbname"`   // For PostgreSQL

	Path string `yaml:"path"` // For SQLite
}

////////////////////////////////////////////////////////////////////////////////

// ConnectWithConfig opens a database connection according to the config.
func ConnectWithConfig(cfg Config) (*sqlx.DB, error) {
	logger := log.WithFields(log.Fields{
		"caller": "ConnectWithConfig",
		"type":   cfg.Type,
	})

	switch cfg.Type {
	case DATABASE_TYPE_POSTGRES:
		logger.WithFields(log.Fields{
			"host":   cfg.Host,
			"port":   cfg.Port,
			"dbname": cfg.DBName,
		}).Info("Connecting to PostgreSQL database")
		return ConnectPostgres(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	case DATABASE_TYPE_SQLITE:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite database path is empty")
		}
		logger.WithField("path", cfg.Path).Info("Connecting to SQLite database")
		return ConnectSqlite(cfg.Path)

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// ConnectPostgres connects to a PostgreSQL database.
func ConnectPostgres(host, port, user, password, dbname string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// ConnectSqlite connects to a SQLite database file.
func ConnectSqlite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}
	return db, nil
}

////////////////////////////////////////////////////////////////////////////////

// CreateEmbeddingTable creates the embedding-cache table for the given
// namespace if it does not exist. The DDL is shared by sqlite and postgres.
func CreateEmbeddingTable(db *sqlx.DB, table string) error {
	ddl := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		text_key TEXT PRIMARY KEY,
		vector TEXT NOT NULL,
		dim INTEGER NOT NULL,
		updated_at TIMESTAMP
	)`, table)

	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to create embedding table %s: %w", table, err)
	}
	return nil
}
