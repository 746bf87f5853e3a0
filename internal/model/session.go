package model

import "time"

// Session 服务端会话记录（session.store = database 时使用）
type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    uint      `gorm:"not null;index:idx_session_user"`
	ExpiresAt time.Time `gorm:"not null;index:idx_session_expires"`
	CreatedAt time.Time

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Session) TableName() string { return "sessions" }

// All 需要迁移的全部模型
func All() []any {
	return []any{&User{}, &Post{}, &Comment{}, &Session{}}
}
