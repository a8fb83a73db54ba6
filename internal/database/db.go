// Package database owns the MySQL connection pool used by every
// repository.
package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Params carries the connection settings and pool limits for Open. Values
// come from internal/config so operators tune the pool through the
// environment.
type Params struct {
	User string
	Pass string
	Host string
	Port string
	Name string

	MaxConns        int
	ConnMaxLifetime time.Duration
}

// DSN renders the driver connection string. ParseTime maps DATETIME and
// TIMESTAMP columns onto time.Time, and pinning the location to UTC keeps
// stored instants comparable with the UTC timestamps the application
// writes.
func (p Params) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Pass
	cfg.Net = "tcp"
	cfg.Addr = p.Host + ":" + p.Port
	cfg.DBName = p.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Open builds the pool, applies the limits and verifies connectivity with
// a bounded ping so a misconfigured database fails startup immediately
// instead of on the first request.
func Open(p Params) (*sql.DB, error) {
	db, err := sql.Open("mysql", p.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(p.MaxConns)
	db.SetMaxIdleConns(p.MaxConns)
	db.SetConnMaxLifetime(p.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
