package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "gin-blog"

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager 签发与校验会话 Cookie
//
// Cookie 内容是用 secret key 签名的 HS256 JWT，携带会话 ID 与用户 ID；
// 会话 ID 必须仍存在于 Store 中，因此登出后旧 Cookie 立即失效。
type Manager struct {
	secret []byte
	store  Store
	opts   Options
}

func NewManager(secret string, store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), store: store, opts: opts}
}

// Login 创建会话并写入 Cookie；请求中已有的会话先作废
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, userID uint) (*Identity, error) {
	if err := m.revoke(ctx, r); err != nil {
		return nil, fmt.Errorf("revoke previous session: %w", err)
	}
	sid := uuid.NewString()
	if err := m.store.Save(ctx, sid, userID, m.opts.TTL); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	token, err := m.sign(sid, userID)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.opts.TTL / time.Second),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return &Identity{UserID: userID, SessionID: sid}, nil
}

// Resolve 从请求中解析身份；无 Cookie、签名无效或会话已删除时返回 nil
func (m *Manager) Resolve(r *http.Request) (*Identity, error) {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	claims, err := m.parse(cookie.Value)
	if err != nil {
		return nil, nil
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 {
		return nil, nil
	}

	stored, err := m.store.Load(r.Context(), claims.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if uint64(stored) != uid {
		return nil, nil
	}
	return &Identity{UserID: uint(uid), SessionID: claims.ID}, nil
}

// Logout 删除服务端会话并清除 Cookie；无论是否已登录都成功
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	err := m.revoke(ctx, r)
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return err
}

// revoke 删除请求 Cookie 指向的服务端会话；签名无效的 Cookie 直接忽略
func (m *Manager) revoke(ctx context.Context, r *http.Request) error {
	if r == nil {
		return nil
	}
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := m.parse(cookie.Value)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.ID)
}

func (m *Manager) sign(sid string, userID uint) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sid,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.opts.TTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

func (m *Manager) parse(token string) (*jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return &claims, nil
}
