package identity

import (
	"context"
	"testing"
)

func TestFromContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("空 context 不應有使用者")
	}

	ctx := WithUser(context.Background(), User{UID: "u1", Email: "a@example.com"})
	u, ok := FromContext(ctx)
	if !ok {
		t.Fatal("期望取得使用者")
	}
	if u.UID != "u1" || u.Email != "a@example.com" {
		t.Errorf("使用者內容不符: %+v", u)
	}
}

func TestFromContext_NoEmailMeansAbsent(t *testing.T) {
	ctx := WithUser(context.Background(), User{UID: "u1"})
	if _, ok := FromContext(ctx); ok {
		t.Error("沒有 email 的使用者應視為未登入")
	}
}
