package identity

import "context"

// User 身分提供者提供的目前使用者
// 核心只使用「是否有使用者」這件事，沒有角色或權限範圍
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Present 是否為已登入的使用者
func (u User) Present() bool {
	return u.Email != ""
}

type ctxKey struct{}

// WithUser 將使用者放入 context
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext 取出 context 中的使用者；沒有時回傳零值與 false
func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKey{}).(User)
	if !ok || !u.Present() {
		return User{}, false
	}
	return u, true
}
