package ports

import (
	"context"

	"github.com/facetrack/attendance-system/internal/core/domain"
)

// AuditRepository persists attendance events to the audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AttendanceEvent) error
}

// AuditService processes attendance events dequeued by the dispatcher.
type AuditService interface {
	Process(ctx context.Context, event domain.AttendanceEvent) error
}

// EventSink is what the attendance service uses to hand off audit events
// without blocking the request path. The queue dispatcher implements it.
type EventSink interface {
	Enqueue(event domain.AttendanceEvent)
}
