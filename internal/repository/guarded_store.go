package repository

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/identity"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
	"github.com/BrianLien09/schedule-app/pkg/metrics"
)

// GuardedStore 寫入權限守門
// 未登入或不在白名單內的寫入不會觸及底層儲存，回傳 ErrPermissionDenied 並記錄警告
type GuardedStore struct {
	inner     DocumentStore
	allowlist map[string]struct{}
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewGuardedStore 白名單為空時，所有已登入使用者皆可寫入
func NewGuardedStore(inner DocumentStore, allowlist []string, logger *zap.Logger, m *metrics.Metrics) *GuardedStore {
	set := make(map[string]struct{}, len(allowlist))
	for _, email := range allowlist {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			set[email] = struct{}{}
		}
	}
	return &GuardedStore{inner: inner, allowlist: set, logger: logger, metrics: m}
}

func (s *GuardedStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	return s.inner.GetAll(ctx, collection)
}

func (s *GuardedStore) Get(ctx context.Context, collection, id string) (Document, error) {
	return s.inner.Get(ctx, collection, id)
}

func (s *GuardedStore) SetByID(ctx context.Context, collection, id string, data Document) error {
	return s.write(ctx, collection, id, "set", func() error {
		return s.inner.SetByID(ctx, collection, id, data)
	})
}

func (s *GuardedStore) UpdateByID(ctx context.Context, collection, id string, patch Document) error {
	return s.write(ctx, collection, id, "update", func() error {
		return s.inner.UpdateByID(ctx, collection, id, patch)
	})
}

func (s *GuardedStore) DeleteByID(ctx context.Context, collection, id string) error {
	return s.write(ctx, collection, id, "delete", func() error {
		return s.inner.DeleteByID(ctx, collection, id)
	})
}

// CanWrite 判斷 ctx 中的使用者是否具寫入權限
func (s *GuardedStore) CanWrite(ctx context.Context) bool {
	user, ok := identity.FromContext(ctx)
	if !ok {
		return false
	}
	if len(s.allowlist) == 0 {
		return true
	}
	_, allowed := s.allowlist[strings.ToLower(user.Email)]
	return allowed
}

func (s *GuardedStore) write(ctx context.Context, collection, id, op string, fn func() error) error {
	if !s.CanWrite(ctx) {
		s.warnDenied(ctx, collection, id, op, nil)
		s.metrics.RecordStoreWrite(collection, op, "denied")
		return apperrors.ErrPermissionDenied
	}

	err := fn()
	switch {
	case err == nil:
		s.metrics.RecordStoreWrite(collection, op, "ok")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		s.warnDenied(ctx, collection, id, op, err)
		s.metrics.RecordStoreWrite(collection, op, "denied")
	default:
		s.metrics.RecordStoreWrite(collection, op, "error")
	}
	return err
}

func (s *GuardedStore) warnDenied(ctx context.Context, collection, id, op string, cause error) {
	user, _ := identity.FromContext(ctx)
	fields := []zap.Field{
		zap.String("collection", collection),
		zap.String("id", id),
		zap.String("op", op),
		zap.String("email", user.Email),
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	s.logger.Warn("寫入被拒絕：無寫入權限", fields...)
}
