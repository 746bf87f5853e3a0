package model

// Comment 文章评论，随文章级联删除
type Comment struct {
	ID       uint   `gorm:"primaryKey"`
	Text     string `gorm:"type:text;not null"`
	AuthorID uint   `gorm:"not null;index:idx_comment_author"`
	PostID   uint   `gorm:"not null;index:idx_comment_post"`

	// 仅用于生成外键约束，不做预加载
	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
	Post   *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Comment) TableName() string { return "comments" }
