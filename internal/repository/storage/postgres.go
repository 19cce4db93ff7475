package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type PostgresStorage struct {
	Connection *gorm.DB
}

func NewPostgresStorage(dsn string) (*PostgresStorage, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PostgresStorage{Connection: conn}, nil
}

func (that *PostgresStorage) AutoMigrate(models ...interface{}) error {
	return that.Connection.AutoMigrate(models...)
}

func (that *PostgresStorage) Close() error {
	sqlDB, err := that.Connection.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying connection: %w", err)
	}

	return sqlDB.Close()
}
