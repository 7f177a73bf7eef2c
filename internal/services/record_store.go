package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fitmi/fitmi-backend/internal/database"
	"github.com/fitmi/fitmi-backend/internal/models"
)

// RecordStore persists health readings. Every operation is scoped by the
// owning user id; records belonging to other users are invisible.
type RecordStore interface {
	Insert(ctx context.Context, rec *models.HealthRecord) error
	ListByUser(ctx context.Context, userID string) ([]models.HealthRecord, error)
	Get(ctx context.Context, userID, id string) (*models.HealthRecord, error)
	Replace(ctx context.Context, rec *models.HealthRecord) error
	Delete(ctx context.Context, userID, id string) error
}

// MongoRecordStore is the production RecordStore backed by the shared
// MongoDB database.
type MongoRecordStore struct{}

func (s *MongoRecordStore) collection() *mongo.Collection {
	return database.DB.Collection(database.HealthRecordsCollection)
}

// ownerFilter builds the exact-match filter used by every single-record
// operation. The record id alone is never enough.
func ownerFilter(userID, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return bson.M{"_id": oid, "user_id": userID}, nil
}

func (s *MongoRecordStore) Insert(ctx context.Context, rec *models.HealthRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	_, err := s.collection().InsertOne(ctx, rec)
	return err
}

func (s *MongoRecordStore) ListByUser(ctx context.Context, userID string) ([]models.HealthRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"date": -1})

	cursor, err := s.collection().Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.HealthRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *MongoRecordStore) Get(ctx context.Context, userID, id string) (*models.HealthRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter, err := ownerFilter(userID, id)
	if err != nil {
		return nil, err
	}

	var rec models.HealthRecord
	if err := s.collection().FindOne(ctx, filter).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *MongoRecordStore) Replace(ctx context.Context, rec *models.HealthRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": rec.ID, "user_id": rec.UserID}
	res, err := s.collection().ReplaceOne(ctx, filter, rec)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoRecordStore) Delete(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter, err := ownerFilter(userID, id)
	if err != nil {
		return err
	}

	res, err := s.collection().DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
