package cmd

import (
	"posimarket/config"
	"posimarket/infrastructure/persistence/mysql"
)

// NewMySQLConfig connection settings from the application configuration
func NewMySQLConfig(cfg *config.Config) *mysql.Config {
	return &mysql.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		LogLevel:        cfg.Database.LogLevel,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
}
