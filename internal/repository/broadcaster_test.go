package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/pkg/redis"
)

// snapshotRecorder 收集快照供斷言
type snapshotRecorder struct {
	mu    sync.Mutex
	calls [][]Document
	ch    chan struct{}
}

func newRecorder() *snapshotRecorder {
	return &snapshotRecorder{ch: make(chan struct{}, 16)}
}

func (r *snapshotRecorder) fn(docs []Document) {
	r.mu.Lock()
	r.calls = append(r.calls, docs)
	r.mu.Unlock()
	r.ch <- struct{}{}
}

func (r *snapshotRecorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("等待快照逾時")
	}
}

func (r *snapshotRecorder) last() []Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

func TestBroadcaster_InitialSnapshotIsSynchronous(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()
	_ = store.SetByID(ctx, CollectionCourses, "c1", Document{})
	b := NewBroadcaster(store, nil, "", zap.NewNop(), nil)

	rec := newRecorder()
	unsubscribe, err := b.Subscribe(ctx, CollectionCourses, rec.fn)
	if err != nil {
		t.Fatalf("Subscribe 失敗: %v", err)
	}
	defer unsubscribe()

	if len(rec.calls) != 1 || len(rec.calls[0]) != 1 {
		t.Fatalf("Subscribe 返回前應已送出目前快照，實際: %v", rec.calls)
	}
}

func TestBroadcaster_NotifyDeliversLatestSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()
	b := NewBroadcaster(store, nil, "", zap.NewNop(), nil)

	rec := newRecorder()
	unsubscribe, _ := b.Subscribe(ctx, CollectionEvents, rec.fn)
	defer unsubscribe()
	rec.wait(t)

	_ = store.SetByID(ctx, CollectionEvents, "e1", Document{})
	b.Notify(ctx, CollectionEvents)
	rec.wait(t)

	if got := rec.last(); len(got) != 1 || got[0].ID() != "e1" {
		t.Errorf("期望快照含 e1，實際: %v", got)
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	b := NewBroadcaster(newTestMemoryStore(), nil, "", zap.NewNop(), nil)

	rec := newRecorder()
	unsubscribe, _ := b.Subscribe(ctx, CollectionEvents, rec.fn)
	rec.wait(t)
	if b.SubscriberCount(CollectionEvents) != 1 {
		t.Fatalf("期望 1 個訂閱者")
	}

	unsubscribe()
	unsubscribe()
	if b.SubscriberCount(CollectionEvents) != 0 {
		t.Errorf("取消訂閱後應無訂閱者")
	}

	b.Notify(ctx, CollectionEvents)
	select {
	case <-rec.ch:
		t.Error("取消訂閱後不應再收到快照")
	case <-time.After(50 * time.Millisecond):
	}
}

// gatedStore 第一次 GetAll 讀完資料後停在 release，模擬慢速的初始讀取
type gatedStore struct {
	DocumentStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	err     error
}

func (g *gatedStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	first := false
	g.once.Do(func() { first = true })
	if !first {
		return g.DocumentStore.GetAll(ctx, collection)
	}
	docs, err := g.DocumentStore.GetAll(ctx, collection)
	close(g.entered)
	<-g.release
	if g.err != nil {
		return nil, g.err
	}
	return docs, err
}

func TestBroadcaster_ChangeDuringInitialReadIsNotLost(t *testing.T) {
	ctx := context.Background()
	inner := newTestMemoryStore()
	store := &gatedStore{DocumentStore: inner, entered: make(chan struct{}), release: make(chan struct{})}
	b := NewBroadcaster(store, nil, "", zap.NewNop(), nil)

	rec := newRecorder()
	type result struct {
		unsubscribe func()
		err         error
	}
	done := make(chan result, 1)
	go func() {
		unsubscribe, err := b.Subscribe(ctx, CollectionEvents, rec.fn)
		done <- result{unsubscribe, err}
	}()

	// 初始讀取已拿到空集合，此時寫入並通知
	<-store.entered
	_ = inner.SetByID(ctx, CollectionEvents, "e1", Document{})
	b.Notify(ctx, CollectionEvents)
	close(store.release)

	res := <-done
	if res.err != nil {
		t.Fatalf("Subscribe 失敗: %v", res.err)
	}
	defer res.unsubscribe()
	rec.wait(t)

	select {
	case <-rec.ch:
		t.Fatal("不應再收到第二份快照")
	case <-time.After(50 * time.Millisecond):
	}
	if got := rec.last(); len(got) != 1 || got[0].ID() != "e1" {
		t.Errorf("最後的快照應含 e1，實際: %v", got)
	}
	if len(rec.calls) != 1 {
		t.Errorf("讀取期間已有新快照，不應再送出舊快照，實際: %v", rec.calls)
	}
}

func TestBroadcaster_SubscribeReadFailureUnregisters(t *testing.T) {
	ctx := context.Background()
	store := &gatedStore{
		DocumentStore: newTestMemoryStore(),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
		err:           errors.New("讀取失敗"),
	}
	close(store.release)
	b := NewBroadcaster(store, nil, "", zap.NewNop(), nil)

	if _, err := b.Subscribe(ctx, CollectionEvents, newRecorder().fn); err == nil {
		t.Fatal("期望回傳讀取錯誤")
	}
	if b.SubscriberCount(CollectionEvents) != 0 {
		t.Errorf("讀取失敗後不應留下訂閱者")
	}
}

// fakeRelay 同步把發佈的訊息交給監聽者
type fakeRelay struct {
	mu         sync.Mutex
	listener   func(redis.ChangeMessage)
	published  []redis.ChangeMessage
	publishErr error
	ready      chan struct{}
}

func (f *fakeRelay) PublishChange(ctx context.Context, channel string, msg redis.ChangeMessage) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.mu.Lock()
	f.published = append(f.published, msg)
	l := f.listener
	f.mu.Unlock()
	if l != nil {
		l(msg)
	}
	return nil
}

func (f *fakeRelay) ListenChanges(ctx context.Context, channel string, fn func(redis.ChangeMessage)) error {
	f.mu.Lock()
	f.listener = fn
	f.mu.Unlock()
	close(f.ready)
	<-ctx.Done()
	return nil
}

func TestBroadcaster_RelayRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newTestMemoryStore()
	relay := &fakeRelay{ready: make(chan struct{})}
	b := NewBroadcaster(store, relay, "schedule:changes", zap.NewNop(), nil)
	go func() { _ = b.Run(ctx) }()
	<-relay.ready

	rec := newRecorder()
	unsubscribe, _ := b.Subscribe(ctx, CollectionWorkShifts, rec.fn)
	defer unsubscribe()
	rec.wait(t)

	_ = store.SetByID(ctx, CollectionWorkShifts, "w1", Document{})
	b.Notify(ctx, CollectionWorkShifts)
	rec.wait(t)

	if len(relay.published) != 1 || relay.published[0].Collection != CollectionWorkShifts {
		t.Errorf("期望經由 relay 發佈一次，實際: %v", relay.published)
	}
	if got := rec.last(); len(got) != 1 {
		t.Errorf("期望快照含 1 筆，實際: %v", got)
	}
}

func TestBroadcaster_RelayFailureFallsBackToLocal(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()
	relay := &fakeRelay{publishErr: errors.New("redis down")}
	b := NewBroadcaster(store, relay, "schedule:changes", zap.NewNop(), nil)

	rec := newRecorder()
	unsubscribe, _ := b.Subscribe(ctx, CollectionCourses, rec.fn)
	defer unsubscribe()
	rec.wait(t)

	_ = store.SetByID(ctx, CollectionCourses, "c1", Document{})
	b.Notify(ctx, CollectionCourses)
	rec.wait(t)

	if got := rec.last(); len(got) != 1 {
		t.Errorf("發佈失敗時應改為本機派送，實際: %v", got)
	}
}
