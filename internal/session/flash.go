package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	flashCookie   = "flash"
	flashAudience = "flash"
	flashTTL      = 10 * time.Minute
)

type flashClaims struct {
	Messages []string `json:"msgs"`
	jwt.RegisteredClaims
}

// Flash 写入一次性提示，下一次渲染页面时读出；内容用 secret key 签名
func (m *Manager) Flash(w http.ResponseWriter, messages ...string) {
	if len(messages) == 0 {
		return
	}
	now := time.Now()
	claims := flashClaims{
		Messages: messages,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{flashAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes 读取并清除提示；签名无效或已过期的内容丢弃
func (m *Manager) PopFlashes(w http.ResponseWriter, r *http.Request) []string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	var claims flashClaims
	_, err = jwt.ParseWithClaims(cookie.Value, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(flashAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil
	}
	return claims.Messages
}
