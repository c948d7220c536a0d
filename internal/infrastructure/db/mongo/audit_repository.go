package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/facetrack/attendance-system/internal/core/domain"
	"github.com/facetrack/attendance-system/internal/core/ports"
)

const collectionEvents = "attendance_events"

// AuditRepository persists attendance events to the audit collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{col: db.Collection(collectionEvents)}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AttendanceEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"identity_id":   event.IdentityID,
		"employee_code": event.EmployeeCode,
		"type":          string(event.Type),
		"date":          event.Date,
		"timestamp":     event.Timestamp.UTC(),
		"distance":      event.Distance,
		"processed_at":  time.Now().UTC(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert attendance event: %w", err)
	}
	return nil
}
