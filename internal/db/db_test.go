package db

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:db-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := Open(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "postboard.db")

	gdb, err := Open(path, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.FileExists(t, path)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	for _, table := range []interface{}{&User{}, &Post{}, &Comment{}, &PostLike{}} {
		assert.True(t, gdb.Migrator().HasTable(table))
	}
}

func TestEnsureUser(t *testing.T) {
	gdb := openTestDB(t)

	require.NoError(t, EnsureUser(gdb, "", "secret", "nobody"), "blank email is skipped")
	require.NoError(t, EnsureUser(gdb, " writer@example.com ", "secret", "Writer"))
	require.NoError(t, EnsureUser(gdb, "writer@example.com", "other", "Ignored"))

	var count int64
	require.NoError(t, gdb.Model(&User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	user, err := FindUserByEmail(gdb, "writer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "writer", user.Username)
	assert.Equal(t, "Writer", user.DisplayName())
	assert.True(t, user.CheckPassword("secret"))
	assert.False(t, user.CheckPassword("other"))
	assert.NotEqual(t, "secret", user.Password)

	byID, err := FindUserByID(gdb, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)
}

func TestFindUserNotFound(t *testing.T) {
	gdb := openTestDB(t)

	_, err := FindUserByID(gdb, 42)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = FindUserByEmail(gdb, "missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDisplayNameFallsBackToUsername(t *testing.T) {
	assert.Equal(t, "bob", User{Username: "bob", Nickname: "  "}.DisplayName())
}
