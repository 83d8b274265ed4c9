package mysql

import (
	"time"

	"Clubhouse_Hub/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 打开 MySQL 连接，TranslateError 让唯一冲突统一成 gorm.ErrDuplicatedKey
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// AutoMigrate 自动建表，唯一索引是防并发重复写入的最终依据
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Location{},
		&model.Profile{},
		&model.MemberLocation{},
		&model.Channel{},
		&model.Post{},
		&model.Comment{},
		&model.Conversation{},
		&model.DirectMessage{},
	)
}
