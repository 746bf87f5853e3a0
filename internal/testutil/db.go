// Package testutil 测试共用的数据库与数据构造工具
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/pkg/database"
)

// NewDB 打开已迁移的内存 sqlite，测试结束时关闭
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      "file::memory:",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, model.All()...))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// SeedUser 直接写入用户，密码字段原样保存
func SeedUser(t testing.TB, db *gorm.DB, email, name string) *model.User {
	t.Helper()
	u := &model.User{Email: email, Password: "scrypt:1024:8:1$salt$00", Name: name}
	require.NoError(t, db.Create(u).Error)
	return u
}

// SeedPost 写入一篇 authorID 发布的文章
func SeedPost(t testing.TB, db *gorm.DB, authorID uint, title string) *model.Post {
	t.Helper()
	p := &model.Post{
		Title:    title,
		Subtitle: title + " subtitle",
		Date:     "October 18, 2026",
		Body:     "<p>" + title + "</p>",
		ImgURL:   "https://example.com/" + title + ".jpg",
		AuthorID: authorID,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
