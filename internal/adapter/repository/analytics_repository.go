package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AzizDev404/Qr/internal/domain/entity"
	"github.com/AzizDev404/Qr/internal/domain/repository"
)

const scanEventCollection = "scan_events"

type AnalyticsRepositoryImpl struct {
	collection *mongo.Collection
}

// NewAnalyticsRepository creates the MongoDB-backed analytics repository.
func NewAnalyticsRepository(db *mongo.Database) repository.AnalyticsRepository {
	return &AnalyticsRepositoryImpl{
		collection: db.Collection(scanEventCollection),
	}
}

func (r *AnalyticsRepositoryImpl) Insert(ctx context.Context, event *entity.ScanEvent) error {
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

func (r *AnalyticsRepositoryImpl) CountByQR(ctx context.Context, qrID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"qr_id": qrID})
}
