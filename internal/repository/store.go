package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// ── 集合名稱 ──

const (
	CollectionCourses              = "courses"
	CollectionWorkShifts           = "workShifts"
	CollectionEvents               = "events"
	CollectionSalaryRecords        = "salaryRecords"
	CollectionAllowanceRecords     = "allowanceRecords"
	CollectionAllowanceSourceTypes = "allowanceSourceTypes"
	CollectionGameGuides           = "gameGuides"
	CollectionCourseNotes          = "courseNotes"
)

// Collections 所有可訂閱的集合
var Collections = []string{
	CollectionCourses,
	CollectionWorkShifts,
	CollectionEvents,
	CollectionSalaryRecords,
	CollectionAllowanceRecords,
	CollectionAllowanceSourceTypes,
	CollectionGameGuides,
	CollectionCourseNotes,
}

// IsKnownCollection 判斷集合名稱是否有效
func IsKnownCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

// Document 一筆文件，欄位名稱對應 JSON 欄位；"id" 恆等於文件鍵
type Document map[string]interface{}

// ID 回傳文件鍵
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// DocumentStore 文件儲存介面
// 寫入時一律覆寫 updatedAt；刪除不存在的文件不視為錯誤
type DocumentStore interface {
	GetAll(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	SetByID(ctx context.Context, collection, id string, data Document) error
	UpdateByID(ctx context.Context, collection, id string, patch Document) error
	DeleteByID(ctx context.Context, collection, id string) error
}

// stampDocument 複製資料並寫入 id 與 updatedAt
func stampDocument(id string, data Document, now time.Time) Document {
	out := make(Document, len(data)+2)
	for k, v := range data {
		out[k] = v
	}
	out["id"] = id
	out["updatedAt"] = now.UTC().Format(time.RFC3339)
	return out
}

// stampPatch 部分更新只帶 updatedAt，不覆寫 id
func stampPatch(patch Document, now time.Time) Document {
	out := make(Document, len(patch)+1)
	for k, v := range patch {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	out["updatedAt"] = now.UTC().Format(time.RFC3339)
	return out
}

func sortByID(docs []Document) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID() < docs[j].ID() })
}

// ToDocument 以 JSON 欄位名稱將結構轉為文件
func ToDocument(v interface{}) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("編碼文件失敗: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("編碼文件失敗: %w", err)
	}
	return doc, nil
}

// FromDocument 將文件解碼為結構
func FromDocument(doc Document, out interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("解碼文件失敗: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("解碼文件 %s 失敗: %w", doc.ID(), err)
	}
	return nil
}
