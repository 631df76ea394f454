package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/pkg/metrics"
	"github.com/BrianLien09/schedule-app/pkg/redis"
)

// SnapshotFunc 接收整個集合的快照
type SnapshotFunc func(docs []Document)

// ChangeRelay 跨實例傳遞集合變更通知
type ChangeRelay interface {
	PublishChange(ctx context.Context, channel string, msg redis.ChangeMessage) error
	ListenChanges(ctx context.Context, channel string, fn func(redis.ChangeMessage)) error
}

// Broadcaster 每個集合一組訂閱者，寫入成功後重新讀取集合並送出快照
// 每個訂閱者只保留最新一份待送快照，慢的訂閱者不會阻塞寫入端
type Broadcaster struct {
	store   DocumentStore
	relay   ChangeRelay
	channel string
	origin  string
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

type subscriber struct {
	fn      SnapshotFunc
	mu      sync.Mutex
	pending []Document
	has     bool
	notify  chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewBroadcaster relay 為 nil 時只在本機派送
func NewBroadcaster(store DocumentStore, relay ChangeRelay, channel string, logger *zap.Logger, m *metrics.Metrics) *Broadcaster {
	return &Broadcaster{
		store:   store,
		relay:   relay,
		channel: channel,
		origin:  uuid.NewString(),
		logger:  logger,
		metrics: m,
		subs:    make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe 先同步送出目前快照，之後每次變更都會收到新的快照
// 訂閱者在讀取初始快照前就已登記，讀取期間發生的變更不會遺漏；
// 若讀取期間已收到較新的快照，改送那一份
func (b *Broadcaster) Subscribe(ctx context.Context, collection string, fn SnapshotFunc) (func(), error) {
	sub := &subscriber{
		fn:     fn,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	if b.subs[collection] == nil {
		b.subs[collection] = make(map[*subscriber]struct{})
	}
	b.subs[collection][sub] = struct{}{}
	b.mu.Unlock()
	b.metrics.SubscriberAdded()

	unsubscribe := func() {
		sub.once.Do(func() {
			b.mu.Lock()
			delete(b.subs[collection], sub)
			if len(b.subs[collection]) == 0 {
				delete(b.subs, collection)
			}
			b.mu.Unlock()
			close(sub.done)
			b.metrics.SubscriberRemoved()
		})
	}

	docs, err := b.store.GetAll(ctx, collection)
	if err != nil {
		unsubscribe()
		return nil, err
	}

	// run 尚未啟動，pending 只可能來自讀取期間的 refresh
	sub.mu.Lock()
	superseded := sub.has
	sub.mu.Unlock()
	if !superseded {
		fn(docs)
	}

	go sub.run()
	return unsubscribe, nil
}

// Notify 集合已變更
// 有 relay 時發佈通知，由所有實例（含本機）收到後重新讀取；發佈失敗則退回本機派送
func (b *Broadcaster) Notify(ctx context.Context, collection string) {
	// 請求結束不應中斷派送
	ctx = context.WithoutCancel(ctx)
	if b.relay != nil {
		err := b.relay.PublishChange(ctx, b.channel, redis.ChangeMessage{Collection: collection, Origin: b.origin})
		if err == nil {
			return
		}
		b.logger.Warn("發佈集合變更失敗，改為本機派送", zap.String("collection", collection), zap.Error(err))
	}
	b.refresh(ctx, collection)
}

// Run 監聽 relay 的變更通知，直到 ctx 結束
func (b *Broadcaster) Run(ctx context.Context) error {
	if b.relay == nil {
		<-ctx.Done()
		return nil
	}
	return b.relay.ListenChanges(ctx, b.channel, func(msg redis.ChangeMessage) {
		if !IsKnownCollection(msg.Collection) {
			b.logger.Warn("收到未知集合的變更通知", zap.String("collection", msg.Collection))
			return
		}
		b.refresh(ctx, msg.Collection)
	})
}

// SubscriberCount 集合目前的訂閱數
func (b *Broadcaster) SubscriberCount(collection string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[collection])
}

func (b *Broadcaster) refresh(ctx context.Context, collection string) {
	b.mu.Lock()
	targets := make([]*subscriber, 0, len(b.subs[collection]))
	for sub := range b.subs[collection] {
		targets = append(targets, sub)
	}
	b.mu.Unlock()

	if len(targets) == 0 {
		return
	}

	docs, err := b.store.GetAll(ctx, collection)
	if err != nil {
		b.logger.Error("重新讀取集合失敗", zap.String("collection", collection), zap.Error(err))
		return
	}
	for _, sub := range targets {
		sub.offer(docs)
	}
}

// offer 覆蓋尚未送出的快照
func (s *subscriber) offer(docs []Document) {
	s.mu.Lock()
	s.pending = docs
	s.has = true
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.notify:
			s.mu.Lock()
			docs, has := s.pending, s.has
			s.pending, s.has = nil, false
			s.mu.Unlock()
			if has {
				s.fn(docs)
			}
		}
	}
}
