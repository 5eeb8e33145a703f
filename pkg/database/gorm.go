package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PoolOptions sizes the sql.DB pool behind the pgvector index.
type PoolOptions struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxIdleConns:    5,
		MaxOpenConns:    25,
		ConnMaxLifetime: time.Hour,
		LogLevel:        logger.Warn,
	}
}

func sqlLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			// Embedding parameters would flood the SQL log.
			ParameterizedQueries: true,
		},
	)
}

func NewGormDBFromDSN(dsn string, opts ...PoolOptions) (*gorm.DB, error) {
	o := DefaultPoolOptions()
	if len(opts) > 0 {
		o = opts[0]
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 sqlLogger(o.LogLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(o.ConnMaxLifetime)

	return db, nil
}
