package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/repository"
)

var ErrUnknownCollection = errors.New("未知的集合名稱")

// SubscriptionService 即時快照訂閱
type SubscriptionService interface {
	// Subscribe 立即以目前快照呼叫 fn，之後每次變更再呼叫；回傳取消訂閱函式
	Subscribe(ctx context.Context, collection string, fn repository.SnapshotFunc) (func(), error)
}

type subscriptionService struct {
	hub    *repository.Broadcaster
	logger *zap.Logger
}

// NewSubscriptionService 建立 SubscriptionService
func NewSubscriptionService(hub *repository.Broadcaster, logger *zap.Logger) SubscriptionService {
	return &subscriptionService{hub: hub, logger: logger}
}

func (s *subscriptionService) Subscribe(ctx context.Context, collection string, fn repository.SnapshotFunc) (func(), error) {
	if !repository.IsKnownCollection(collection) {
		return nil, ErrUnknownCollection
	}
	unsubscribe, err := s.hub.Subscribe(ctx, collection, fn)
	if err != nil {
		s.logger.Error("建立訂閱失敗", zap.String("collection", collection), zap.Error(err))
		return nil, err
	}
	s.logger.Debug("新增訂閱", zap.String("collection", collection))
	return unsubscribe, nil
}
