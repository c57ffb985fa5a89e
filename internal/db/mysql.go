package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// gormConfig enables TranslateError so driver duplicate-key failures surface
// as gorm.ErrDuplicatedKey. The idempotent wishlist add depends on that.
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}
