// Package repository contains the repository layer for the User Directory API
package repository

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ampweb/userdirapi/internal/config"
	"github.com/ampweb/userdirapi/internal/models"
	"github.com/ampweb/userdirapi/pkg/utils/zaplogger"
)

// ConnectPostgres connects to a Postgres database and returns a GORM database object
func ConnectPostgres(cfg *config.Config) (*gorm.DB, error) {
	zaplogger.Info(config.SingleLine)
	zaplogger.Info("Initializing Postgres")
	zaplogger.Info(config.SingleLine)

	// Set up GORM logger
	var logLevel logger.LogLevel
	switch cfg.PostgresLogLevel {
	case "silent":
		logLevel = logger.Silent
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	default:
		logLevel = logger.Warn
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	// Open database connection
	db, err := gorm.Open(postgres.Open(cfg.PostgresDsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %v", err)
	}

	zaplogger.Info("  * connected")

	// AutoMigrate will create tables and add/modify columns
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %v", err)
	}

	return db, nil
}

// AutoMigrate creates or updates every table the service owns or checks
// at delete time
func AutoMigrate(db *gorm.DB) error {
	tables := []struct {
		name  string
		model interface{}
	}{
		{models.UsersTableName, &models.User{}},
		{models.UserGroupsTableName, &models.UserGroup{}},
		{models.UserGroupMembersTableName, &models.UserGroupMember{}},
		{models.MediasTableName, &models.Media{}},
		{models.MediaTypesTableName, &models.MediaType{}},
		{models.SessionsTableName, &models.Session{}},
		{models.ProfilesTableName, &models.Profile{}},
		{models.AuditLogTableName, &models.AuditLog{}},
		{models.SysMapsTableName, &models.SysMap{}},
		{models.ScreensTableName, &models.Screen{}},
		{models.SlideshowsTableName, &models.Slideshow{}},
		{models.ActionsTableName, &models.Action{}},
		{models.OperationsTableName, &models.Operation{}},
		{models.OpMessageUsersTableName, &models.OpMessageUser{}},
		{models.OpMessageGroupsTableName, &models.OpMessageGroup{}},
	}

	zaplogger.Info("  * migrating tables")
	for _, table := range tables {
		err := db.AutoMigrate(table.model)
		if err != nil {
			return fmt.Errorf("failed to auto migrate table: %s, err:%v", table.name, err)
		}
		zaplogger.Info("    - \"" + table.name + "\"")
	}

	return nil
}
