package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/BrianLien09/schedule-app/internal/identity"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

func signedIn(email string) context.Context {
	return identity.WithUser(context.Background(), identity.User{UID: "u1", Email: email})
}

func TestGuardedStore_DeniesAnonymousWrite(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	inner := newTestMemoryStore()
	s := NewGuardedStore(inner, nil, zap.New(core), nil)

	err := s.SetByID(context.Background(), CollectionCourses, "c1", Document{"name": "英文"})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("期望 ErrPermissionDenied，實際: %v", err)
	}
	if docs, _ := inner.GetAll(context.Background(), CollectionCourses); len(docs) != 0 {
		t.Errorf("被拒絕的寫入不應改變儲存內容")
	}
	if logs.Len() != 1 {
		t.Errorf("期望記錄 1 筆警告，實際: %d", logs.Len())
	}
}

func TestGuardedStore_EmptyAllowlistAllowsSignedIn(t *testing.T) {
	s := NewGuardedStore(newTestMemoryStore(), nil, zap.NewNop(), nil)
	if err := s.SetByID(signedIn("someone@example.com"), CollectionCourses, "c1", Document{}); err != nil {
		t.Errorf("白名單為空時已登入者應可寫入: %v", err)
	}
}

func TestGuardedStore_Allowlist(t *testing.T) {
	s := NewGuardedStore(newTestMemoryStore(), []string{" Owner@Example.com "}, zap.NewNop(), nil)

	if err := s.SetByID(signedIn("owner@example.com"), CollectionCourses, "c1", Document{}); err != nil {
		t.Errorf("白名單內使用者應可寫入（不分大小寫）: %v", err)
	}
	err := s.DeleteByID(signedIn("guest@example.com"), CollectionCourses, "c1")
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("期望 ErrPermissionDenied，實際: %v", err)
	}
	if _, err := s.Get(context.Background(), CollectionCourses, "c1"); err != nil {
		t.Errorf("被拒絕的刪除不應生效: %v", err)
	}
}

// deniedStore 模擬後端權限規則拒絕寫入
type deniedStore struct {
	*MemoryStore
}

func (deniedStore) SetByID(ctx context.Context, collection, id string, data Document) error {
	return fmt.Errorf("%w: backend rule", apperrors.ErrPermissionDenied)
}

func TestGuardedStore_BackendDenialIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewGuardedStore(deniedStore{newTestMemoryStore()}, nil, zap.New(core), nil)

	err := s.SetByID(signedIn("owner@example.com"), CollectionEvents, "e1", Document{})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("期望 ErrPermissionDenied，實際: %v", err)
	}
	if logs.Len() != 1 {
		t.Errorf("期望記錄 1 筆警告，實際: %d", logs.Len())
	}
}
