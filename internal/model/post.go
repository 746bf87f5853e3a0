package model

import "time"

// DateLayout 文章日期展示格式，如 "August 24, 2026"
const DateLayout = "January 02, 2006"

// Post 博客文章；Date 在创建时写入，之后不再修改
type Post struct {
	ID       uint   `gorm:"primaryKey"`
	Title    string `gorm:"type:varchar(250);uniqueIndex;not null"`
	Subtitle string `gorm:"type:varchar(250);not null"`
	Date     string `gorm:"type:varchar(250);not null"`
	Body     string `gorm:"type:text;not null"`
	ImgURL   string `gorm:"column:img_url;type:varchar(250);not null"`
	AuthorID uint   `gorm:"not null;index:idx_post_author"`

	// 仅用于生成外键约束，不做预加载
	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
}

func (Post) TableName() string { return "blog_post" }

// FormatDate 按 DateLayout 格式化日期
func FormatDate(t time.Time) string { return t.Format(DateLayout) }
