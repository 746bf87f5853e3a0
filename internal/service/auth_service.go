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

// PasswordHasher 密码哈希，由 pkg/password 实现
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) bool
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// AuthService 注册、登录与用户查询
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	UsersByID(ctx context.Context, ids []uint) (map[uint]*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	// 用户不存在时也做一次校验，避免通过耗时区分账号是否存在
	dummyHash string
}

func NewAuthService(users repository.UserRepository, hasher PasswordHasher) AuthService {
	dummy, _ := hasher.Hash("dummy-password")
	return &authService{users: users, hasher: hasher, dummyHash: dummy}
}

// NormalizeEmail 去空白并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := NormalizeEmail(in.Email)

	// 预检查；并发注册由唯一索引兜底
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Email: email, Password: hashed, Name: strings.TrimSpace(in.Name)}
	if err := s.users.Create(ctx, u); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	logger.Info("user registered", zap.Uint("user_id", u.ID))
	return u, nil
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if repository.IsNotFound(err) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !s.hasher.Verify(password, u.Password) {
		logger.Info("login rejected", zap.Uint("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *authService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) UsersByID(ctx context.Context, ids []uint) (map[uint]*model.User, error) {
	users, err := s.users.ListByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	res := make(map[uint]*model.User, len(users))
	for _, u := range users {
		res[u.ID] = u
	}
	return res, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
