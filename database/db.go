package database

import (
	"context"
	_ "embed"
	"log"
	"time"

	"serenity/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// Pool is the global PostgreSQL connection pool.
var Pool *pgxpool.Pool

// InitDB initializes the PostgreSQL connection pool and bootstraps the schema.
func InitDB() {
	cfg, err := pgxpool.ParseConfig(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to parse database URL: %v", err)
	}
	cfg.MaxConns = 30
	cfg.MinConns = 5
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	Pool, err = pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to create connection pool: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := Pool.Ping(ctx); err != nil {
		log.Fatalf("failed to ping PostgreSQL: %v", err)
	}

	if _, err := Pool.Exec(ctx, schemaSQL); err != nil {
		log.Fatalf("failed to bootstrap schema: %v", err)
	}

	log.Println("Connected to PostgreSQL successfully!")
}

// CloseDB closes the connection pool.
func CloseDB() {
	if Pool != nil {
		Pool.Close()
	}
}

// GetPool returns the global connection pool.
func GetPool() *pgxpool.Pool {
	return Pool
}
