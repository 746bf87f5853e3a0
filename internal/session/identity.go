// Package session 会话与权限判定：签名 Cookie + 服务端会话存储
package session

// AdminUserID 唯一的管理员账号（第一个注册的用户）
const AdminUserID uint = 1

// Identity 请求级别的已认证身份；nil 表示匿名
type Identity struct {
	UserID    uint
	SessionID string
}

// Authenticated 是否已登录
func (id *Identity) Authenticated() bool { return id != nil && id.UserID != 0 }

// IsAdmin 已登录且用户 ID 为 1
func IsAdmin(id *Identity) bool {
	return id.Authenticated() && id.UserID == AdminUserID
}
