package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var conn *gorm.DB

// InitPostgres initializes the PostgreSQL connection
func InitPostgres(dsn string) error {
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	conn = database
	log.Println("✓ PostgreSQL connected successfully")
	return nil
}

// Get returns the database instance
func Get() *gorm.DB {
	return conn
}

// Close closes the database connection
func Close() error {
	if conn == nil {
		return nil
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
