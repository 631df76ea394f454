package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

// MemoryStore 行程內文件儲存，供開發與測試使用
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]Document
	now  func() time.Time
}

// NewMemoryStore 建立空的 MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]Document),
		now:  time.Now,
	}
}

func (s *MemoryStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, 0, len(s.data[collection]))
	for _, doc := range s.data[collection] {
		docs = append(docs, cloneDocument(doc))
	}
	sortByID(docs)
	return docs, nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return nil, apperrors.ErrDocumentNotFound
	}
	return cloneDocument(doc), nil
}

func (s *MemoryStore) SetByID(ctx context.Context, collection, id string, data Document) error {
	doc := cloneDocument(stampDocument(id, data, s.now()))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data[collection] == nil {
		s.data[collection] = make(map[string]Document)
	}
	s.data[collection][id] = doc
	return nil
}

func (s *MemoryStore) UpdateByID(ctx context.Context, collection, id string, patch Document) error {
	patch = cloneDocument(stampPatch(patch, s.now()))

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return apperrors.ErrDocumentNotFound
	}
	for k, v := range patch {
		doc[k] = v
	}
	return nil
}

func (s *MemoryStore) DeleteByID(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data[collection], id)
	return nil
}

// cloneDocument 深拷貝，讓呼叫端無法修改已儲存的資料
func cloneDocument(doc Document) Document {
	raw, err := json.Marshal(doc)
	if err != nil {
		out := make(Document, len(doc))
		for k, v := range doc {
			out[k] = v
		}
		return out
	}
	var out Document
	_ = json.Unmarshal(raw, &out)
	return out
}
