package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/facetrack/attendance-system/internal/core/domain"
	"github.com/facetrack/attendance-system/internal/core/ports"
)

const collectionAttendance = "attendance"

// AttendanceRepository implements ports.AttendanceRepository using MongoDB.
// The unique compound (identity_id, date) index is the physical invariant
// behind the one-record-per-day rule; the conditional checkout update is the
// one behind set-once checkout. Neither is an application-level check.
type AttendanceRepository struct {
	col *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{col: db.Collection(collectionAttendance)}
}

type attendanceDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	IdentityID      string             `bson:"identity_id"`
	Date            string             `bson:"date"`
	CheckInTime     time.Time          `bson:"check_in_time"`
	CheckOutTime    *time.Time         `bson:"check_out_time,omitempty"`
	MatchConfidence float64            `bson:"match_confidence"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func (d attendanceDoc) toDomain() *domain.AttendanceRecord {
	return &domain.AttendanceRecord{
		ID:              d.ID.Hex(),
		IdentityID:      d.IdentityID,
		Date:            d.Date,
		CheckInTime:     d.CheckInTime,
		CheckOutTime:    d.CheckOutTime,
		MatchConfidence: d.MatchConfidence,
		CreatedAt:       d.CreatedAt,
	}
}

func (r *AttendanceRepository) Find(ctx context.Context, identityID, date string) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc attendanceDoc
	err := r.col.FindOne(ctx, bson.M{"identity_id": identityID, "date": date}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return doc.toDomain(), nil
}

// Create inserts the day's record. A duplicate-key error means a concurrent
// mark won the check-in race; it surfaces as domain.ErrRecordConflict so the
// caller can re-read and branch.
func (r *AttendanceRepository) Create(ctx context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := attendanceDoc{
		IdentityID:      rec.IdentityID,
		Date:            rec.Date,
		CheckInTime:     rec.CheckInTime,
		MatchConfidence: rec.MatchConfidence,
		CreatedAt:       rec.CreatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRecordConflict
		}
		return nil, fmt.Errorf("insert attendance: %w", err)
	}

	created := *rec
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// SetCheckout sets check_out_time exactly once. The filter demands the field
// be currently unset, so concurrent checkouts yield exactly one winner; the
// loser gets domain.ErrRecordConflict.
func (r *AttendanceRepository) SetCheckout(ctx context.Context, recordID string, at time.Time) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(recordID)
	if err != nil {
		return nil, fmt.Errorf("set checkout: bad record id: %w", err)
	}

	filter := bson.M{"_id": oid, "check_out_time": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{"check_out_time": at}}

	var doc attendanceDoc
	err = r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordConflict
		}
		return nil, fmt.Errorf("set checkout: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AttendanceRepository) List(ctx context.Context, filter ports.ListRecordsFilter) ([]domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	if filter.IdentityID != "" {
		query["identity_id"] = filter.IdentityID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []attendanceDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", err)
	}

	records := make([]domain.AttendanceRecord, len(docs))
	for i, d := range docs {
		records[i] = *d.toDomain()
	}
	return records, nil
}

// EnsureIndexes creates the unique (identity_id, date) compound index.
func (r *AttendanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "identity_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
