package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-blog/config"
)

type widget struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:", LogLevel: "silent"})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(db, &widget{}))
	require.NoError(t, db.Create(&widget{Name: "a"}).Error)

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, "blog.db?_foreign_keys=on", withForeignKeys("blog.db"))
	assert.Equal(t, "file::memory:?cache=shared&_foreign_keys=on", withForeignKeys("file::memory:?cache=shared"))
	assert.Equal(t, "blog.db?_fk=1", withForeignKeys("blog.db?_fk=1"))
}
