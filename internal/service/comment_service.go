package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

type CommentService interface {
	ListByPost(ctx context.Context, postID uint) ([]*model.Comment, error)
	Create(ctx context.Context, postID, authorID uint, text string) (*model.Comment, error)
	// Delete 返回被删评论所属文章 ID
	Delete(ctx context.Context, id uint) (uint, error)
}

type commentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) CommentService {
	return &commentService{comments: comments, posts: posts}
}

func (s *commentService) ListByPost(ctx context.Context, postID uint) ([]*model.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

func (s *commentService) Create(ctx context.Context, postID, authorID uint, text string) (*model.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	c := &model.Comment{Text: strings.TrimSpace(text), AuthorID: authorID, PostID: postID}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	logger.Debug("comment created", zap.Uint("comment_id", c.ID), zap.Uint("post_id", postID))
	return c, nil
}

func (s *commentService) Delete(ctx context.Context, id uint) (uint, error) {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return 0, ErrCommentNotFound
		}
		return 0, err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return 0, ErrCommentNotFound
		}
		return 0, fmt.Errorf("delete comment: %w", err)
	}
	logger.Info("comment deleted", zap.Uint("comment_id", id), zap.Uint("post_id", c.PostID))
	return c.PostID, nil
}
