package db

import (
	"strings"
	"time"

	"mailchat/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// isPostgresDSN 判断 DSN 是否指向 Postgres；其余一律当作 sqlite 文件路径。
func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// Connect 建立数据库连接。Postgres 带简单重试等待容器就绪，sqlite 直连。
func Connect(dsn string) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	if !isPostgresDSN(dsn) {
		gdb, err := gorm.Open(sqlite.Open(dsn), gcfg)
		if err != nil {
			return nil, err
		}
		// sqlite 限制为单连接：:memory: 下多连接各自是独立库，
		// 并发写也会触发锁冲突。
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return gdb, nil
	}

	var gdb *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		gdb, err = gorm.Open(postgres.Open(dsn), gcfg)
		if err == nil {
			sqlDB, err2 := gdb.DB()
			if err2 == nil {
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetMaxOpenConns(20)
				sqlDB.SetConnMaxLifetime(time.Hour)
				return gdb, nil
			}
			err = err2
		}
		time.Sleep(time.Duration(500+i*200) * time.Millisecond)
	}
	return nil, err
}

// Migrate 自动迁移全部表结构。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&models.Identity{}, &models.Message{}, &models.Session{})
}
