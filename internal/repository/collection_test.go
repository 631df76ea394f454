package repository

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/model"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

func newCourseCollection() (*Collection[model.Course], *MemoryStore) {
	store := newTestMemoryStore()
	hub := NewBroadcaster(store, nil, "", zap.NewNop(), nil)
	return NewCollection(CollectionCourses, store, hub, func(c model.Course) string { return c.ID }, zap.NewNop()), store
}

func TestCollection_SetGetList(t *testing.T) {
	ctx := context.Background()
	c, _ := newCourseCollection()

	course := model.Course{ID: "c1", Name: "數位電子學", Day: 1, StartTime: "13:10", EndTime: "16:00", Location: "G512"}
	if err := c.Set(ctx, course); err != nil {
		t.Fatalf("Set 失敗: %v", err)
	}

	got, err := c.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get 失敗: %v", err)
	}
	if *got != course {
		t.Errorf("期望 %+v，實際: %+v", course, *got)
	}

	list, err := c.List(ctx)
	if err != nil || len(list) != 1 {
		t.Errorf("期望 1 筆，實際: %v, %v", list, err)
	}

	if _, err := c.Get(ctx, "nope"); !errors.Is(err, apperrors.ErrDocumentNotFound) {
		t.Errorf("期望 ErrDocumentNotFound，實際: %v", err)
	}
}

func TestCollection_Update(t *testing.T) {
	ctx := context.Background()
	c, _ := newCourseCollection()
	_ = c.Set(ctx, model.Course{ID: "c1", Name: "英文", Day: 2, StartTime: "09:00", EndTime: "10:00"})

	if err := c.Update(ctx, "c1", map[string]interface{}{"location": "A101"}); err != nil {
		t.Fatalf("Update 失敗: %v", err)
	}
	got, _ := c.Get(ctx, "c1")
	if got.Location != "A101" || got.Name != "英文" {
		t.Errorf("部分更新結果不正確: %+v", got)
	}
}

func TestCollection_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	c, _ := newCourseCollection()
	_ = c.Set(ctx, model.Course{ID: "old", Name: "舊", Day: 1, StartTime: "09:00", EndTime: "10:00"})
	_ = c.Set(ctx, model.Course{ID: "keep", Name: "舊名", Day: 1, StartTime: "09:00", EndTime: "10:00"})

	err := c.ReplaceAll(ctx, []model.Course{
		{ID: "keep", Name: "新名", Day: 3, StartTime: "09:00", EndTime: "10:00"},
		{ID: "new", Name: "新", Day: 4, StartTime: "09:00", EndTime: "10:00"},
	})
	if err != nil {
		t.Fatalf("ReplaceAll 失敗: %v", err)
	}

	list, _ := c.List(ctx)
	if len(list) != 2 {
		t.Fatalf("期望 2 筆，實際: %v", list)
	}
	if list[0].ID != "keep" || list[0].Name != "新名" || list[1].ID != "new" {
		t.Errorf("取代結果不正確: %+v", list)
	}
}

func TestCollection_ListSkipsUndecodable(t *testing.T) {
	ctx := context.Background()
	c, store := newCourseCollection()
	_ = store.SetByID(ctx, CollectionCourses, "bad", Document{"day": "星期三"})
	_ = c.Set(ctx, model.Course{ID: "good", Name: "英文", Day: 2, StartTime: "09:00", EndTime: "10:00"})

	list, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List 不應回傳錯誤: %v", err)
	}
	if len(list) != 1 || list[0].ID != "good" {
		t.Errorf("期望只留下可解碼的記錄，實際: %+v", list)
	}
}

func TestCollection_SubscribeTyped(t *testing.T) {
	ctx := context.Background()
	c, _ := newCourseCollection()

	got := make(chan []model.Course, 4)
	unsubscribe, err := c.Subscribe(ctx, func(items []model.Course) { got <- items })
	if err != nil {
		t.Fatalf("Subscribe 失敗: %v", err)
	}
	defer unsubscribe()

	if first := <-got; len(first) != 0 {
		t.Errorf("初始快照應為空，實際: %v", first)
	}

	_ = c.Set(ctx, model.Course{ID: "c1", Name: "英文", Day: 2, StartTime: "09:00", EndTime: "10:00"})
	if next := <-got; len(next) != 1 {
		t.Errorf("期望寫入後收到 1 筆，實際: %v", next)
	}
}
