package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/facetrack/attendance-system/internal/core/domain"
	"github.com/facetrack/attendance-system/internal/core/ports"
)

// CooldownGuard abstracts the short-lived mark debounce store (Redis).
type CooldownGuard interface {
	Active(ctx context.Context, identityID, date string) (bool, error)
	Arm(ctx context.Context, identityID, date string) error
}

// markAttempts bounds the read-then-branch loop: the initial pass plus one
// retry after losing a storage race.
const markAttempts = 2

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// AttendanceServiceConfig carries the optional collaborators and tuning of
// the service. Zero values are safe: no cooldown, no audit sink, server-local
// timezone, wall clock, any descriptor dimension accepted.
type AttendanceServiceConfig struct {
	// DescriptorDim, when non-zero, is the embedding dimension enforced on
	// every inbound descriptor (128 for the default browser model).
	DescriptorDim int
	// Location determines the calendar day boundary.
	Location *time.Location
	// Now is the injectable clock used for timestamps and day keys.
	Now func() time.Time
	// Cooldown, when set, debounces marks per (identity, date).
	Cooldown CooldownGuard
	// Events, when set, receives an audit event per successful mark.
	Events ports.EventSink
}

// AttendanceService orchestrates the Matcher and the ledger to implement
// mark-attendance and register-identity.
type AttendanceService struct {
	identities ports.IdentityRepository
	ledger     ports.AttendanceRepository
	matcher    ports.Matcher
	cfg        AttendanceServiceConfig
	log        zerolog.Logger
}

func NewAttendanceService(
	identities ports.IdentityRepository,
	ledger ports.AttendanceRepository,
	matcher ports.Matcher,
	cfg AttendanceServiceConfig,
	log zerolog.Logger,
) *AttendanceService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AttendanceService{
		identities: identities,
		ledger:     ledger,
		matcher:    matcher,
		cfg:        cfg,
		log:        log,
	}
}

// MarkAttendance identifies the person behind the descriptor and drives the
// day state machine. Exactly one ledger mutation happens per successful call;
// a lost race against a concurrent mark is recovered by one re-read of
// current state, never by creating a second record.
func (s *AttendanceService) MarkAttendance(ctx context.Context, input ports.MarkAttendanceInput) (*ports.MarkAttendanceResult, error) {
	if err := s.validateDescriptor(input.Descriptor); err != nil {
		return nil, err
	}

	candidates, err := s.identities.ListActiveWithDescriptors(ctx)
	if err != nil {
		return nil, fmt.Errorf("mark attendance: load identities: %w", err)
	}

	match := s.matcher.FindBestMatch(input.Descriptor, candidates)
	if match == nil {
		return nil, domain.ErrNotRecognized
	}

	now := s.cfg.Now().In(s.cfg.Location)
	date := now.Format("2006-01-02")

	if s.cfg.Cooldown != nil {
		active, cdErr := s.cfg.Cooldown.Active(ctx, match.Identity.ID, date)
		if cdErr != nil {
			s.log.Warn().Err(cdErr).Str("employee_code", match.Identity.EmployeeCode).
				Msg("cooldown check failed, processing anyway")
		} else if active {
			return nil, domain.ErrMarkedRecently
		}
	}

	result, err := s.transition(ctx, match, date, now)
	if err != nil {
		return nil, err
	}

	if s.cfg.Cooldown != nil {
		if cdErr := s.cfg.Cooldown.Arm(ctx, match.Identity.ID, date); cdErr != nil {
			s.log.Warn().Err(cdErr).Str("employee_code", match.Identity.EmployeeCode).
				Msg("failed to arm mark cooldown")
		}
	}
	if s.cfg.Events != nil {
		s.cfg.Events.Enqueue(domain.AttendanceEvent{
			IdentityID:   match.Identity.ID,
			EmployeeCode: match.Identity.EmployeeCode,
			Type:         result.Type,
			Date:         date,
			Timestamp:    now,
			Distance:     match.Distance,
		})
	}

	s.log.Info().
		Str("employee_code", match.Identity.EmployeeCode).
		Str("type", string(result.Type)).
		Str("date", date).
		Float64("distance", match.Distance).
		Msg("attendance marked")

	return result, nil
}

// transition performs the single state machine step for (identity, date).
// The ledger's unique index and conditional checkout update make each branch
// atomic; losing either race falls through to a re-read on the next attempt.
func (s *AttendanceService) transition(ctx context.Context, match *domain.MatchResult, date string, now time.Time) (*ports.MarkAttendanceResult, error) {
	for attempt := 0; attempt < markAttempts; attempt++ {
		rec, err := s.ledger.Find(ctx, match.Identity.ID, date)
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			created, createErr := s.ledger.Create(ctx, &domain.AttendanceRecord{
				IdentityID:      match.Identity.ID,
				Date:            date,
				CheckInTime:     now,
				MatchConfidence: match.Distance,
				CreatedAt:       now,
			})
			if errors.Is(createErr, domain.ErrRecordConflict) {
				// Someone checked in between our read and write.
				continue
			}
			if createErr != nil {
				return nil, fmt.Errorf("mark attendance: check in: %w", createErr)
			}
			return s.markResult(match, domain.MarkCheckIn, created), nil

		case err != nil:
			return nil, fmt.Errorf("mark attendance: read ledger: %w", err)
		}

		if rec.State() == domain.StateCheckedOut {
			return nil, domain.ErrDayCompleted
		}

		updated, outErr := s.ledger.SetCheckout(ctx, rec.ID, now)
		if errors.Is(outErr, domain.ErrRecordConflict) {
			// Someone else completed the checkout first.
			continue
		}
		if outErr != nil {
			return nil, fmt.Errorf("mark attendance: check out: %w", outErr)
		}
		return s.markResult(match, domain.MarkCheckOut, updated), nil
	}

	// Both attempts lost their race, so the day necessarily reached the
	// terminal state under a concurrent caller.
	return nil, domain.ErrDayCompleted
}

func (s *AttendanceService) markResult(match *domain.MatchResult, mt domain.MarkType, rec *domain.AttendanceRecord) *ports.MarkAttendanceResult {
	return &ports.MarkAttendanceResult{
		Type:         mt,
		DisplayName:  match.Identity.DisplayName,
		EmployeeCode: match.Identity.EmployeeCode,
		Date:         rec.Date,
		CheckInTime:  rec.CheckInTime,
		CheckOutTime: rec.CheckOutTime,
		Confidence:   match.Distance,
	}
}

// RegisterIdentity creates a new identity. Duplicate employee codes and
// faces already enrolled under another code are both rejected; descriptors
// beyond the capacity bound are dropped, not rejected.
func (s *AttendanceService) RegisterIdentity(ctx context.Context, input ports.RegisterIdentityInput) (*ports.RegisterIdentityResult, error) {
	name := strings.TrimSpace(input.DisplayName)
	code := domain.NormalizeEmployeeCode(input.EmployeeCode)
	if name == "" || code == "" {
		return nil, fmt.Errorf("%w: name and employee code are required", domain.ErrInvalidInput)
	}
	if len(input.Descriptors) == 0 {
		return nil, fmt.Errorf("%w: at least one descriptor is required", domain.ErrInvalidInput)
	}
	for _, d := range input.Descriptors {
		if err := s.validateDescriptor(d); err != nil {
			return nil, err
		}
		if len(d) != len(input.Descriptors[0]) {
			return nil, fmt.Errorf("%w: descriptors differ in length", domain.ErrInvalidDescriptor)
		}
	}

	descriptors := input.Descriptors
	if len(descriptors) > domain.MaxDescriptors {
		s.log.Warn().Str("employee_code", code).
			Int("submitted", len(descriptors)).
			Int("dropped", len(descriptors)-domain.MaxDescriptors).
			Msg("descriptor capacity exceeded, truncating")
		descriptors = descriptors[:domain.MaxDescriptors]
	}

	existing, err := s.identities.FindByEmployeeCode(ctx, code)
	if err != nil && !errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, fmt.Errorf("register identity: lookup code: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmployeeCode
	}

	// One physical person must not enroll under two employee codes: any
	// submitted descriptor matching an existing identity rejects the whole
	// registration.
	candidates, err := s.identities.ListActiveWithDescriptors(ctx)
	if err != nil {
		return nil, fmt.Errorf("register identity: load identities: %w", err)
	}
	for _, d := range descriptors {
		if dup := s.matcher.FindBestMatch(d, candidates); dup != nil {
			s.log.Info().Str("employee_code", code).
				Str("matched_code", dup.Identity.EmployeeCode).
				Float64("distance", dup.Distance).
				Msg("registration rejected, face already enrolled")
			return nil, domain.ErrDuplicateFace
		}
	}

	now := s.cfg.Now().In(s.cfg.Location)
	created, err := s.identities.Create(ctx, &domain.Identity{
		DisplayName:  name,
		EmployeeCode: code,
		Descriptors:  descriptors,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("register identity: %w", err)
	}

	s.log.Info().Str("employee_code", code).Int("descriptors", len(descriptors)).
		Msg("identity registered")

	return &ports.RegisterIdentityResult{
		IdentityID:   created.ID,
		EmployeeCode: created.EmployeeCode,
		Descriptors:  len(created.Descriptors),
	}, nil
}

// ListAttendance returns denormalized records, most recent first.
func (s *AttendanceService) ListAttendance(ctx context.Context, input ports.ListAttendanceInput) ([]ports.AttendanceRecordView, error) {
	filter := ports.ListRecordsFilter{Date: input.Date, Limit: input.Limit}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	if input.EmployeeCode != "" {
		ident, err := s.identities.FindByEmployeeCode(ctx, domain.NormalizeEmployeeCode(input.EmployeeCode))
		if err != nil {
			return nil, fmt.Errorf("list attendance: %w", err)
		}
		filter.IdentityID = ident.ID
	}

	records, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.IdentityID)
	}
	idents, err := s.identities.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list attendance: join identities: %w", err)
	}

	views := make([]ports.AttendanceRecordView, 0, len(records))
	for _, r := range records {
		ident := idents[r.IdentityID]
		views = append(views, ports.AttendanceRecordView{
			DisplayName:  ident.DisplayName,
			EmployeeCode: ident.EmployeeCode,
			Date:         r.Date,
			CheckInTime:  r.CheckInTime,
			CheckOutTime: r.CheckOutTime,
			Confidence:   r.MatchConfidence,
		})
	}
	return views, nil
}

// DeactivateIdentity removes an identity from the match candidate set.
// History is kept; the identity is never hard-deleted.
func (s *AttendanceService) DeactivateIdentity(ctx context.Context, employeeCode string) error {
	code := domain.NormalizeEmployeeCode(employeeCode)
	if code == "" {
		return fmt.Errorf("%w: employee code is required", domain.ErrInvalidInput)
	}
	if err := s.identities.Deactivate(ctx, code); err != nil {
		return fmt.Errorf("deactivate identity: %w", err)
	}
	s.log.Info().Str("employee_code", code).Msg("identity deactivated")
	return nil
}

func (s *AttendanceService) validateDescriptor(d domain.Descriptor) error {
	if len(d) == 0 {
		return fmt.Errorf("%w: descriptor is empty", domain.ErrInvalidDescriptor)
	}
	if s.cfg.DescriptorDim > 0 && len(d) != s.cfg.DescriptorDim {
		return fmt.Errorf("%w: expected %d values, got %d", domain.ErrInvalidDescriptor, s.cfg.DescriptorDim, len(d))
	}
	return nil
}

var _ ports.AttendanceService = (*AttendanceService)(nil)
