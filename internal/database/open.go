package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbsql "github.com/databricks/databricks-sql-go"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// WarehouseConfig selects and addresses the structured store.
type WarehouseConfig struct {
	Driver string // databricks, postgres or sqlite

	// databricks
	Host     string
	HTTPPath string
	Token    string

	// postgres connection URL or sqlite file path
	DSN string
}

const connectTimeout = 30 * time.Second

// Open connects to the configured warehouse and verifies the connection.
func Open(ctx context.Context, cfg WarehouseConfig) (*sqlx.DB, error) {
	var db *sqlx.DB
	switch cfg.Driver {
	case "databricks":
		if cfg.Host == "" || cfg.Token == "" || cfg.HTTPPath == "" {
			return nil, fmt.Errorf("databricks host, token and http path must be configured")
		}
		connector, err := dbsql.NewConnector(
			dbsql.WithServerHostname(cfg.Host),
			dbsql.WithPort(443),
			dbsql.WithHTTPPath(cfg.HTTPPath),
			dbsql.WithAccessToken(cfg.Token),
			dbsql.WithTimeout(connectTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("databricks connector: %w", err)
		}
		db = sqlx.NewDb(sql.OpenDB(connector), "databricks")
	case "postgres", "sqlite":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("empty dsn for %s warehouse", cfg.Driver)
		}
		raw, err := sql.Open(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("error opening db: %w", err)
		}
		if cfg.Driver == "sqlite" {
			raw.SetMaxOpenConns(1)
		}
		db = sqlx.NewDb(raw, cfg.Driver)
	default:
		return nil, fmt.Errorf("unsupported warehouse driver %q", cfg.Driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s warehouse: %w", cfg.Driver, err)
	}
	return db, nil
}
