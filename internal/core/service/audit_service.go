package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/facetrack/attendance-system/internal/core/domain"
	"github.com/facetrack/attendance-system/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns the AuditService that persists attendance events
// dequeued by the dispatcher.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process records one attendance event in the audit trail. The mark already
// happened; a failed insert is a lost audit row, never a rolled-back mark.
func (s *auditService) Process(ctx context.Context, event domain.AttendanceEvent) error {
	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("audit event: %w", err)
	}

	s.log.Debug().
		Str("employee_code", event.EmployeeCode).
		Str("type", string(event.Type)).
		Str("date", event.Date).
		Msg("audit event recorded")
	return nil
}
