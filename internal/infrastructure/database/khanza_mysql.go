package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"patient-portal/config"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// NewKhanzaConnection opens the SIMRS Khanza MySQL database. A failed ping is
// only logged: Khanza being down must not stop the portal from starting, the
// registrar degrades to local-only until it comes back.
func NewKhanzaConnection(cfg config.KhanzaConfig) (*sql.DB, error) {
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = cfg.DBUser
	mysqlCfg.Passwd = cfg.DBPassword
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = fmt.Sprintf("%s:%s", cfg.DBHost, cfg.DBPort)
	mysqlCfg.DBName = cfg.DBName
	mysqlCfg.Timeout = cfg.Timeout
	mysqlCfg.ReadTimeout = cfg.Timeout
	mysqlCfg.WriteTimeout = cfg.Timeout

	db, err := sql.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open khanza database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(20)
	db.SetConnMaxLifetime(60 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logrus.Warnf("Khanza database not reachable at %s, registrations will be local-only until it is: %v", mysqlCfg.Addr, err)
		return db, nil
	}

	logrus.Info("Successfully connected to Khanza database")

	return db, nil
}
