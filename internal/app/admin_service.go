package app

import (
	"context"
	"fmt"
	"time"

	"nt_reading_bot/internal/domain/checkin"
	"nt_reading_bot/internal/domain/plan"
	"nt_reading_bot/internal/domain/reader"
)

// Custom application-level errors for admin service
var ErrAdminNotAuthorized = fmt.Errorf("performing user is not authorized as an admin")
var ErrReaderAlreadyInactive = fmt.Errorf("reader is already inactive")
var ErrReaderAlreadyActive = fmt.Errorf("reader is already active")

// Stats is the admin view of one plan day.
type Stats struct {
	Date          time.Time
	InPlan        bool
	Info          plan.CycleInfo
	ActiveReaders int
	CheckIns      int
}

type AdminService struct {
	readerRepo      reader.Repository
	checkinRepo     checkin.Repository
	schedule        plan.Schedule
	adminTelegramID int64
}

func NewAdminService(rr reader.Repository, cr checkin.Repository, schedule plan.Schedule, adminID int64) *AdminService {
	return &AdminService{
		readerRepo:      rr,
		checkinRepo:     cr,
		schedule:        schedule,
		adminTelegramID: adminID,
	}
}

// IsAdmin reports whether telegramID is the configured admin.
func (s *AdminService) IsAdmin(telegramID int64) bool {
	return telegramID == s.adminTelegramID
}

// ListReaders returns active readers, or every reader when activeOnly is false.
func (s *AdminService) ListReaders(ctx context.Context, performingAdminID int64, activeOnly bool) ([]*reader.Reader, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}
	if activeOnly {
		return s.readerRepo.ListActive(ctx)
	}
	return s.readerRepo.ListAll(ctx)
}

// DeactivateReader stops daily messages for a reader.
func (s *AdminService) DeactivateReader(ctx context.Context, performingAdminID int64, readerTelegramID int64) (*reader.Reader, error) {
	return s.setActive(ctx, performingAdminID, readerTelegramID, false)
}

// ActivateReader resumes daily messages for a reader.
func (s *AdminService) ActivateReader(ctx context.Context, performingAdminID int64, readerTelegramID int64) (*reader.Reader, error) {
	return s.setActive(ctx, performingAdminID, readerTelegramID, true)
}

func (s *AdminService) setActive(ctx context.Context, performingAdminID, readerTelegramID int64, active bool) (*reader.Reader, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}

	target, err := s.readerRepo.GetByTelegramID(ctx, readerTelegramID)
	if err != nil {
		return nil, err
	}

	if target.IsActive == active {
		if active {
			return target, ErrReaderAlreadyActive
		}
		return target, ErrReaderAlreadyInactive
	}

	target.IsActive = active
	if err := s.readerRepo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to update reader activity in repository: %w", err)
	}
	return target, nil
}

// Stats summarises participation for date.
func (s *AdminService) Stats(ctx context.Context, performingAdminID int64, date time.Time) (*Stats, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}

	active, err := s.readerRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active readers: %w", err)
	}
	count, err := s.checkinRepo.CountByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to count check-ins: %w", err)
	}

	info, inPlan := s.schedule.CycleInfoForDate(date)
	return &Stats{
		Date:          date,
		InPlan:        inPlan,
		Info:          info,
		ActiveReaders: len(active),
		CheckIns:      count,
	}, nil
}

