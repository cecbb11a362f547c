package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "postboard.db"

// Open 打开 sqlite 数据库并执行自动迁移。
// databasePath 为空时将回退到 DefaultPath。
func Open(databasePath string, opts ...gorm.Option) (*gorm.DB, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = DefaultPath
	}

	if !strings.HasPrefix(path, "file:") {
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
	}

	if len(opts) == 0 {
		opts = []gorm.Option{&gorm.Config{}}
	}

	gdb, err := gorm.Open(sqlite.Open(path), opts...)
	if err != nil {
		return nil, err
	}

	// sqlite 只允许一个写者，多连接并发写会触发 "database is locked"。
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

// Migrate creates or updates the tables for every model the service owns.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&User{},
		&Post{},
		&Comment{},
		&PostLike{},
	)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
