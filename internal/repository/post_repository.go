package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-blog/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	GetByID(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
	// Update 覆盖可编辑字段（title, subtitle, img_url, body, author_id）；Date 不变
	Update(ctx context.Context, p *model.Post) error
	// Delete 在同一事务内删除文章及其评论
	Delete(ctx context.Context, id uint) error
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// List 最新的文章在前
func (r *postRepository) List(ctx context.Context) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).Order("id DESC").Find(&res).Error
	return res, err
}

func (r *postRepository) Update(ctx context.Context, p *model.Post) error {
	res := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"title":     p.Title,
			"subtitle":  p.Subtitle,
			"img_url":   p.ImgURL,
			"body":      p.Body,
			"author_id": p.AuthorID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
