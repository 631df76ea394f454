package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

// mongoUnauthorized MongoDB 的 Unauthorized 錯誤碼
const mongoUnauthorized = 13

// MongoStore 以 MongoDB 儲存文件，每個集合對應一個 Mongo collection，_id 為文件鍵
type MongoStore struct {
	db  *mongo.Database
	now func() time.Time
}

// NewMongoStore 建立 MongoStore
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db, now: time.Now}
}

func (s *MongoStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.db.Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, mapMongoError(err)
	}
	defer cur.Close(ctx)

	var raws []bson.M
	if err := cur.All(ctx, &raws); err != nil {
		return nil, mapMongoError(err)
	}

	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, fromBSON(raw))
	}
	return docs, nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrDocumentNotFound
	}
	if err != nil {
		return nil, mapMongoError(err)
	}
	return fromBSON(raw), nil
}

func (s *MongoStore) SetByID(ctx context.Context, collection, id string, data Document) error {
	doc := toBSON(stampDocument(id, data, s.now()))
	doc["_id"] = id

	_, err := s.db.Collection(collection).ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		doc,
		options.Replace().SetUpsert(true),
	)
	return mapMongoError(err)
}

func (s *MongoStore) UpdateByID(ctx context.Context, collection, id string, patch Document) error {
	res, err := s.db.Collection(collection).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: toBSON(stampPatch(patch, s.now()))}},
	)
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}

func (s *MongoStore) DeleteByID(ctx context.Context, collection, id string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return mapMongoError(err)
}

func toBSON(doc Document) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// fromBSON 移除 _id 並確保 id 欄位存在；巢狀 bson 型別交由 JSON 轉換處理
func fromBSON(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}
	if id, ok := raw["_id"].(string); ok {
		doc["id"] = id
	}
	return doc
}

func mapMongoError(err error) error {
	if err == nil {
		return nil
	}
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(mongoUnauthorized) {
		return fmt.Errorf("%w: %v", apperrors.ErrPermissionDenied, err)
	}
	return err
}
