// Package password 用户密码哈希与校验
//
// 编码格式为 "method$salt$hex"，如 "scrypt:32768:8:1$Hg3kP0aZ$6f1c..."；
// Verify 同时兼容旧的 "pbkdf2:sha256:600000$salt$hex" 格式。
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

const (
	saltChars    = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	scryptKeyLen = 64
	maxScryptN   = 1 << 20

	defaultPBKDF2Iterations = 600000
)

var ErrMalformedHash = errors.New("malformed password hash")

// Params scrypt 参数
type Params struct {
	N          int
	R          int
	P          int
	SaltLength int
}

// DefaultParams 与历史数据保持一致的默认参数
var DefaultParams = Params{N: 32768, R: 8, P: 1, SaltLength: 16}

// Hasher 负责密码哈希与校验
type Hasher struct {
	params Params
}

func NewHasher(p Params) *Hasher {
	if p.N <= 1 {
		p.N = DefaultParams.N
	}
	if p.R <= 0 {
		p.R = DefaultParams.R
	}
	if p.P <= 0 {
		p.P = DefaultParams.P
	}
	if p.SaltLength < 8 {
		p.SaltLength = 8
	}
	return &Hasher{params: p}
}

// Hash 生成带随机盐的 scrypt 哈希
func (h *Hasher) Hash(plain string) (string, error) {
	salt, err := genSalt(h.params.SaltLength)
	if err != nil {
		return "", err
	}
	key, err := scrypt.Key([]byte(plain), []byte(salt), h.params.N, h.params.R, h.params.P, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("scrypt: %w", err)
	}
	method := fmt.Sprintf("scrypt:%d:%d:%d", h.params.N, h.params.R, h.params.P)
	return method + "$" + salt + "$" + hex.EncodeToString(key), nil
}

// Verify 常量时间比较；任何解析错误都视为不匹配
func (h *Hasher) Verify(plain, encoded string) bool {
	ok, err := verify(plain, encoded)
	return err == nil && ok
}

func verify(plain, encoded string) (bool, error) {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return false, ErrMalformedHash
	}
	method, salt, want := parts[0], parts[1], parts[2]
	wantKey, err := hex.DecodeString(want)
	if err != nil || len(wantKey) == 0 {
		return false, ErrMalformedHash
	}

	got, err := derive(method, []byte(plain), []byte(salt), len(wantKey))
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(got, wantKey) == 1, nil
}

func derive(method string, plain, salt []byte, keyLen int) ([]byte, error) {
	fields := strings.Split(method, ":")
	switch fields[0] {
	case "scrypt":
		n, r, p := 32768, 8, 1
		if len(fields) == 4 {
			var err error
			if n, err = strconv.Atoi(fields[1]); err != nil {
				return nil, ErrMalformedHash
			}
			if r, err = strconv.Atoi(fields[2]); err != nil {
				return nil, ErrMalformedHash
			}
			if p, err = strconv.Atoi(fields[3]); err != nil {
				return nil, ErrMalformedHash
			}
		} else if len(fields) != 1 {
			return nil, ErrMalformedHash
		}
		if n > maxScryptN {
			return nil, fmt.Errorf("scrypt N %d exceeds limit", n)
		}
		return scrypt.Key(plain, salt, n, r, p, keyLen)
	case "pbkdf2":
		digest := "sha256"
		iterations := defaultPBKDF2Iterations
		if len(fields) > 1 {
			digest = fields[1]
		}
		if len(fields) > 2 {
			it, err := strconv.Atoi(fields[2])
			if err != nil || it <= 0 {
				return nil, ErrMalformedHash
			}
			iterations = it
		}
		var fn func() hash.Hash
		switch digest {
		case "sha256":
			fn = sha256.New
		case "sha512":
			fn = sha512.New
		default:
			return nil, fmt.Errorf("unsupported pbkdf2 digest %q", digest)
		}
		return pbkdf2.Key(plain, salt, iterations, keyLen, fn), nil
	default:
		return nil, fmt.Errorf("unsupported hash method %q", fields[0])
	}
}

func genSalt(n int) (string, error) {
	max := big.NewInt(int64(len(saltChars)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate salt: %w", err)
		}
		b.WriteByte(saltChars[idx.Int64()])
	}
	return b.String(), nil
}
