package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

// pgInsufficientPrivilege SQLSTATE 42501
const pgInsufficientPrivilege = "42501"

// documentRow documents 資料表的一列
type documentRow struct {
	Collection string         `gorm:"column:collection;primaryKey"`
	ID         string         `gorm:"column:id;primaryKey"`
	Data       datatypes.JSON `gorm:"column:data;type:jsonb"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (documentRow) TableName() string {
	return "documents"
}

// PostgresStore 以單一 jsonb 資料表儲存所有集合
type PostgresStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPostgresStore 建立 PostgresStore，資料表由遷移建立
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	var rows []documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, mapPostgresError(err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.document()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrDocumentNotFound
	}
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return row.document()
}

func (s *PostgresStore) SetByID(ctx context.Context, collection, id string, data Document) error {
	now := s.now()
	raw, err := json.Marshal(stampDocument(id, data, now))
	if err != nil {
		return fmt.Errorf("編碼文件失敗: %w", err)
	}

	row := documentRow{Collection: collection, ID: id, Data: datatypes.JSON(raw), UpdatedAt: now}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&row).Error
	return mapPostgresError(err)
}

func (s *PostgresStore) UpdateByID(ctx context.Context, collection, id string, patch Document) error {
	now := s.now()
	raw, err := json.Marshal(stampPatch(patch, now))
	if err != nil {
		return fmt.Errorf("編碼文件失敗: %w", err)
	}

	// jsonb || 只合併頂層欄位，與文件儲存的部分更新語意相同
	res := s.db.WithContext(ctx).
		Model(&documentRow{}).
		Where("collection = ? AND id = ?", collection, id).
		Updates(map[string]interface{}{
			"data":       gorm.Expr("data || ?::jsonb", string(raw)),
			"updated_at": now,
		})
	if res.Error != nil {
		return mapPostgresError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteByID(ctx context.Context, collection, id string) error {
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&documentRow{}).Error
	return mapPostgresError(err)
}

func (r documentRow) document() (Document, error) {
	var doc Document
	if err := json.Unmarshal(r.Data, &doc); err != nil {
		return nil, fmt.Errorf("解碼文件 %s/%s 失敗: %w", r.Collection, r.ID, err)
	}
	if doc == nil {
		doc = Document{}
	}
	doc["id"] = r.ID
	return doc, nil
}

func mapPostgresError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInsufficientPrivilege {
		return fmt.Errorf("%w: %v", apperrors.ErrPermissionDenied, err)
	}
	return err
}
