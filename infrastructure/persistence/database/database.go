package database

import (
	"github.com/pkg/errors"
	"github.com/ryos-app/ryos-server/domain/model"
	"github.com/ryos-app/ryos-server/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// InitDb opens the Postgres connection used for the audit log and runs the
// schema migration.
func InitDb(cfg *config.Config) error {
	gormDb, err := gorm.Open(postgres.Open(cfg.GetPostgresConnectionString()), &gorm.Config{})
	if err != nil {
		return errors.Wrap(err, "failed to open postgres connection")
	}

	sqlDb, err := gormDb.DB()
	if err != nil {
		return errors.Wrap(err, "failed to access underlying sql.DB")
	}

	sqlDb.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	sqlDb.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	sqlDb.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	if err := gormDb.AutoMigrate(&model.AuditLog{}); err != nil {
		return errors.Wrap(err, "failed to migrate audit log schema")
	}

	db = gormDb
	return nil
}

func GetDb() *gorm.DB {
	return db
}

func CloseDb() {
	if db == nil {
		return
	}
	if sqlDb, err := db.DB(); err == nil {
		_ = sqlDb.Close()
	}
}
