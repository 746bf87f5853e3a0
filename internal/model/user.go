package model

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

const gravatarBase = "https://www.gravatar.com/avatar/"

// User 注册用户；ID 为 1 的账号是管理员
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Email    string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Password string `gorm:"type:varchar(250);not null" json:"-"`
	Name     string `gorm:"type:varchar(100);not null"`
}

func (User) TableName() string { return "users" }

// AvatarURL 头像地址
func (u *User) AvatarURL() string { return AvatarURL(u.Email) }

// AvatarURL 由规范化邮箱的哈希生成 Gravatar identicon 地址
func AvatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return gravatarBase + hex.EncodeToString(sum[:]) + "?d=identicon"
}
