package repository

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AzizDev404/Qr/internal/domain/entity"
	"github.com/AzizDev404/Qr/internal/domain/repository"
)

const recordCollection = "qrcodes"

type RecordRepositoryImpl struct {
	collection *mongo.Collection
}

// NewRecordRepository creates the MongoDB-backed record repository.
func NewRecordRepository(db *mongo.Database) repository.RecordRepository {
	return &RecordRepositoryImpl{
		collection: db.Collection(recordCollection),
	}
}

// FindByID looks a record up regardless of its lifecycle flag.
func (r *RecordRepositoryImpl) FindByID(ctx context.Context, id string) (*entity.Record, error) {
	var record entity.Record
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// FindActiveByID only matches publicly resolvable records.
func (r *RecordRepositoryImpl) FindActiveByID(ctx context.Context, id string) (*entity.Record, error) {
	var record entity.Record
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "active": true}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Find returns one page of records matching the filter.
func (r *RecordRepositoryImpl) Find(ctx context.Context, filter repository.RecordFilter) ([]*entity.Record, error) {
	opts := options.Find().
		SetSort(sortSpec(filter.Sort)).
		SetSkip((filter.Page - 1) * filter.Limit).
		SetLimit(filter.Limit)

	cursor, err := r.collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]*entity.Record, 0)
	for cursor.Next(ctx) {
		var record entity.Record
		if err := cursor.Decode(&record); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}
	return records, cursor.Err()
}

// Count returns the number of records matching the filter.
func (r *RecordRepositoryImpl) Count(ctx context.Context, filter repository.RecordFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, buildFilter(filter))
}

// Save upserts the full record document.
func (r *RecordRepositoryImpl) Save(ctx context.Context, record *entity.Record) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": record.ID}, record, opts)
	return err
}

// Delete removes the record document.
func (r *RecordRepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// RecordScan bumps the usage counters with a single atomic update. Concurrent
// Save calls can still race this write; the counter is analytics-grade.
func (r *RecordRepositoryImpl) RecordScan(ctx context.Context, id string, at time.Time) error {
	update := bson.M{
		"$inc": bson.M{"scan_count": 1},
		"$set": bson.M{"last_scanned_at": at},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// TotalScans sums scan counters across active records.
func (r *RecordRepositoryImpl) TotalScans(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"active": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$scan_count"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result struct {
		Total int64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, err
		}
	}
	return result.Total, cursor.Err()
}

func buildFilter(filter repository.RecordFilter) bson.M {
	query := bson.M{}
	if !filter.IncludeInactive {
		query["active"] = true
	}
	if filter.Kind != nil {
		query["active_content.kind"] = string(*filter.Kind)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := primitive.Regex{Pattern: regexEscape(search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"active_content.description": pattern},
		}
	}
	return query
}

func sortSpec(sort string) bson.D {
	field := strings.TrimSpace(sort)
	order := 1
	if strings.HasPrefix(field, "-") {
		order = -1
		field = field[1:]
	}
	switch field {
	case "title", "scan_count", "created_at":
	default:
		field, order = "created_at", -1
	}
	return bson.D{{Key: field, Value: order}}
}

var regexSpecials = `\.+*?()|[]{}^$`

// regexEscape neutralizes regex metacharacters in free-text search input.
func regexEscape(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if strings.ContainsRune(regexSpecials, ch) {
			b.WriteRune('\\')
		}
		b.WriteRune(ch)
	}
	return b.String()
}
