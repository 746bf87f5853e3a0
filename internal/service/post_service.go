package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
}

// PostService 文章读写；写操作的权限由调用方（管理员中间件）保证
type PostService interface {
	List(ctx context.Context) ([]*model.Post, error)
	Get(ctx context.Context, id uint) (*model.Post, error)
	Create(ctx context.Context, authorID uint, in PostInput) (*model.Post, error)
	Update(ctx context.Context, id, editorID uint, in PostInput) (*model.Post, error)
	Delete(ctx context.Context, id uint) error
}

type postService struct {
	posts repository.PostRepository
	now   func() time.Time
}

func NewPostService(posts repository.PostRepository) PostService {
	return &postService{posts: posts, now: time.Now}
}

func (s *postService) List(ctx context.Context) ([]*model.Post, error) {
	return s.posts.List(ctx)
}

func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *postService) Create(ctx context.Context, authorID uint, in PostInput) (*model.Post, error) {
	p := &model.Post{
		Title:    strings.TrimSpace(in.Title),
		Subtitle: strings.TrimSpace(in.Subtitle),
		Body:     in.Body,
		ImgURL:   strings.TrimSpace(in.ImgURL),
		Date:     model.FormatDate(s.now()),
		AuthorID: authorID,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrTitleTaken
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	logger.Info("post created", zap.Uint("post_id", p.ID), zap.Uint("author_id", authorID))
	return p, nil
}

// Update 编辑者成为新的作者，日期保持不变
func (s *postService) Update(ctx context.Context, id, editorID uint, in PostInput) (*model.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Title = strings.TrimSpace(in.Title)
	p.Subtitle = strings.TrimSpace(in.Subtitle)
	p.Body = in.Body
	p.ImgURL = strings.TrimSpace(in.ImgURL)
	p.AuthorID = editorID

	if err := s.posts.Update(ctx, p); err != nil {
		switch {
		case repository.IsDuplicate(err):
			return nil, ErrTitleTaken
		case repository.IsNotFound(err):
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	logger.Info("post updated", zap.Uint("post_id", p.ID), zap.Uint("editor_id", editorID))
	return p, nil
}

// Delete 级联删除评论
func (s *postService) Delete(ctx context.Context, id uint) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	logger.Info("post deleted", zap.Uint("post_id", id))
	return nil
}
