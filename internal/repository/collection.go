package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Collection 具型別的集合存取，寫入成功後通知 Broadcaster
type Collection[T any] struct {
	name   string
	store  DocumentStore
	hub    *Broadcaster
	idOf   func(T) string
	logger *zap.Logger
}

// NewCollection idOf 取出記錄的文件鍵
func NewCollection[T any](name string, store DocumentStore, hub *Broadcaster, idOf func(T) string, logger *zap.Logger) *Collection[T] {
	return &Collection[T]{name: name, store: store, hub: hub, idOf: idOf, logger: logger}
}

// Name 集合名稱
func (c *Collection[T]) Name() string {
	return c.name
}

// List 依文件鍵排序回傳所有記錄
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	docs, err := c.store.GetAll(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("讀取 %s 失敗: %w", c.name, err)
	}
	return c.decodeAll(docs), nil
}

// Get 文件不存在時回傳 ErrDocumentNotFound
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return nil, err
	}
	var v T
	if err := FromDocument(doc, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Set 以記錄本身的 id 新增或覆寫
func (c *Collection[T]) Set(ctx context.Context, v T) error {
	doc, err := ToDocument(v)
	if err != nil {
		return err
	}
	if err := c.store.SetByID(ctx, c.name, c.idOf(v), doc); err != nil {
		return err
	}
	c.changed(ctx)
	return nil
}

// Update 部分更新，只覆寫 patch 中出現的欄位
func (c *Collection[T]) Update(ctx context.Context, id string, patch map[string]interface{}) error {
	if err := c.store.UpdateByID(ctx, c.name, id, Document(patch)); err != nil {
		return err
	}
	c.changed(ctx)
	return nil
}

// Delete 刪除不存在的記錄不視為錯誤
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.store.DeleteByID(ctx, c.name, id); err != nil {
		return err
	}
	c.changed(ctx)
	return nil
}

// DeleteMany 依序刪除，遇錯即停
func (c *Collection[T]) DeleteMany(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := c.store.DeleteByID(ctx, c.name, id); err != nil {
			c.changed(ctx)
			return err
		}
	}
	c.changed(ctx)
	return nil
}

// SetMany 依序寫入，遇錯即停
func (c *Collection[T]) SetMany(ctx context.Context, items []T) error {
	for _, v := range items {
		doc, err := ToDocument(v)
		if err != nil {
			return err
		}
		if err := c.store.SetByID(ctx, c.name, c.idOf(v), doc); err != nil {
			c.changed(ctx)
			return err
		}
	}
	c.changed(ctx)
	return nil
}

// ReplaceAll 以 items 取代整個集合：刪除不在 items 中的文件，再寫入每一筆
func (c *Collection[T]) ReplaceAll(ctx context.Context, items []T) error {
	existing, err := c.store.GetAll(ctx, c.name)
	if err != nil {
		return fmt.Errorf("讀取 %s 失敗: %w", c.name, err)
	}

	keep := make(map[string]struct{}, len(items))
	for _, v := range items {
		keep[c.idOf(v)] = struct{}{}
	}
	for _, doc := range existing {
		if _, ok := keep[doc.ID()]; ok {
			continue
		}
		if err := c.store.DeleteByID(ctx, c.name, doc.ID()); err != nil {
			c.changed(ctx)
			return err
		}
	}
	return c.SetMany(ctx, items)
}

// Subscribe 訂閱具型別的快照
func (c *Collection[T]) Subscribe(ctx context.Context, fn func([]T)) (func(), error) {
	return c.hub.Subscribe(ctx, c.name, func(docs []Document) {
		fn(c.decodeAll(docs))
	})
}

// decodeAll 無法解碼的舊資料略過並記錄警告
func (c *Collection[T]) decodeAll(docs []Document) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := FromDocument(doc, &v); err != nil {
			c.logger.Warn("略過無法解碼的文件", zap.String("collection", c.name), zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out
}

func (c *Collection[T]) changed(ctx context.Context) {
	if c.hub != nil {
		c.hub.Notify(ctx, c.name)
	}
}
