package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"talenthub-backend/internal/domains/booking/model"
	"talenthub-backend/internal/domains/booking/repository"
	notifmodel "talenthub-backend/internal/domains/notification/model"
	notifservice "talenthub-backend/internal/domains/notification/service"
	talentmodel "talenthub-backend/internal/domains/talent/model"
	talentrepo "talenthub-backend/internal/domains/talent/repository"
	"talenthub-backend/internal/shared/middleware"
	"talenthub-backend/pkg/logger"
)

// BookingService owns the booking lifecycle and the capacity ledger
type BookingService interface {
	Create(ctx context.Context, requesterID uuid.UUID, req model.CreateBookingRequest) (*model.BookingDetail, error)
	Get(ctx context.Context, callerID, bookingID uuid.UUID) (*model.BookingDetail, error)
	Cancel(ctx context.Context, callerID, bookingID uuid.UUID) error
	Update(ctx context.Context, callerID, bookingID uuid.UUID, req model.UpdateBookingRequest) (*model.BookingDetail, error)
	ListMyBookings(ctx context.Context, userID uuid.UUID) ([]*model.BookingDetail, error)
	ListReceivedBookings(ctx context.Context, ownerID uuid.UUID) ([]*model.BookingDetail, error)
	ExportReceivedBookings(ctx context.Context, ownerID uuid.UUID) (*excelize.File, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	talentRepo talentrepo.TalentRepository
	notifier   notifservice.Emitter
}

func NewBookingService(
	repo repository.BookingRepository,
	talentRepo talentrepo.TalentRepository,
	notifier notifservice.Emitter,
) BookingService {
	return &bookingService{
		repo:       repo,
		talentRepo: talentRepo,
		notifier:   notifier,
	}
}

// ========================================
// CREATE
// ========================================

func (s *bookingService) Create(ctx context.Context, requesterID uuid.UUID, req model.CreateBookingRequest) (*model.BookingDetail, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}
	talentID, _ := uuid.Parse(req.TalentID)
	scheduleID, _ := uuid.Parse(req.ScheduleID)

	// 2. RESOLVE TALENT
	talent, err := s.talentRepo.FindByID(ctx, talentID)
	if err != nil {
		if errors.Is(err, talentmodel.ErrTalentNotFound) {
			return nil, model.ErrTalentNotFound
		}
		return nil, err
	}

	// 3. RESOLVE SCHEDULE
	schedule, err := s.talentRepo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, talentmodel.ErrScheduleNotFound) {
			return nil, model.ErrScheduleNotFound
		}
		return nil, err
	}

	// 4. SCHEDULE MUST BELONG TO THE TALENT
	if schedule.TalentID != talentID {
		return nil, model.ErrInvalidSchedule
	}

	// 5. REJECT SELF-BOOKING
	if talent.UserID == requesterID {
		return nil, model.ErrSelfBooking
	}

	// 6. ADMIT AND PERSIST
	// Capacity and duplicate checks run again inside the transaction
	// under a row lock, so two concurrent requests cannot both pass.
	now := time.Now()
	booking := &model.Booking{
		ID:         uuid.New(),
		UserID:     requesterID,
		TalentID:   talentID,
		ScheduleID: scheduleID,
		Status:     model.StatusConfirmed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.AdmitAndCreate(ctx, booking, talent.MaxParticipants); err != nil {
		return nil, err
	}

	middleware.CountBookingCreated()

	// 7. LOAD DETAIL FOR RESPONSE AND NOTIFICATION TEXT
	detail, err := s.repo.FindDetailByID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	// 8. FAN OUT (best effort, outside the transaction)
	s.notifyBookingCreated(ctx, detail)

	return detail, nil
}

func (s *bookingService) notifyBookingCreated(ctx context.Context, d *model.BookingDetail) {
	scheduleStr := fmt.Sprintf("%s %s", d.ScheduleDate.Format("2006-01-02"), d.ScheduleStartTime)

	// To the talent owner, with the requester's contact
	ownerMsg := fmt.Sprintf("%s booked %q. (Schedule: %s) | Requester contact: %s",
		d.RequesterName, d.TalentTitle, scheduleStr, d.RequesterEmail)
	if err := s.notifier.Emit(ctx, d.TalentOwnerID, notifmodel.TypeBookingCreated,
		"New booking", ownerMsg, &d.TalentID, &d.ID); err != nil {
		logger.Warn("failed to emit booking_created notification", map[string]interface{}{
			"booking_id": d.ID.String(), "error": err.Error(),
		})
	}

	// To the requester, with the provider's contact
	requesterMsg := fmt.Sprintf("Your booking for %q is confirmed. (Schedule: %s) | Provider contact: %s",
		d.TalentTitle, scheduleStr, d.TalentOwnerEmail)
	if err := s.notifier.Emit(ctx, d.UserID, notifmodel.TypeBookingConfirmed,
		"Booking confirmed", requesterMsg, &d.TalentID, &d.ID); err != nil {
		logger.Warn("failed to emit booking_confirmed notification", map[string]interface{}{
			"booking_id": d.ID.String(), "error": err.Error(),
		})
	}
}

// ========================================
// READ
// ========================================

func (s *bookingService) Get(ctx context.Context, callerID, bookingID uuid.UUID) (*model.BookingDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Viewable only by the requester or the talent owner
	if detail.UserID != callerID && detail.TalentOwnerID != callerID {
		return nil, model.ErrForbidden
	}

	return detail, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, userID uuid.UUID) ([]*model.BookingDetail, error) {
	bookings, err := s.repo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*model.BookingDetail{}
	}
	return bookings, nil
}

func (s *bookingService) ListReceivedBookings(ctx context.Context, ownerID uuid.UUID) ([]*model.BookingDetail, error) {
	bookings, err := s.repo.ListByTalentOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*model.BookingDetail{}
	}
	return bookings, nil
}

// ========================================
// CANCEL
// ========================================

func (s *bookingService) Cancel(ctx context.Context, callerID, bookingID uuid.UUID) error {
	// 1. RESOLVE AND CHECK OWNERSHIP
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != callerID {
		return model.ErrForbidden
	}

	// 2. STATE MACHINE: cancelled is terminal
	if booking.Status != model.StatusConfirmed {
		return model.ErrInvalidTransition
	}

	// 3. SOFT FLIP + RECOMPUTE (one transaction, row retained)
	if err := s.repo.Cancel(ctx, bookingID); err != nil {
		return err
	}

	middleware.CountBookingCancelled()

	// 4. NOTIFY THE TALENT OWNER (best effort)
	detail, err := s.repo.FindDetailByID(ctx, bookingID)
	if err != nil {
		logger.Warn("failed to load booking detail for cancellation notice", map[string]interface{}{
			"booking_id": bookingID.String(), "error": err.Error(),
		})
		return nil
	}
	s.notifyBookingCancelled(ctx, detail)

	return nil
}

func (s *bookingService) notifyBookingCancelled(ctx context.Context, d *model.BookingDetail) {
	scheduleStr := fmt.Sprintf("%s %s", d.ScheduleDate.Format("2006-01-02"), d.ScheduleStartTime)
	msg := fmt.Sprintf("%s cancelled their booking for %q. (Schedule: %s)",
		d.RequesterName, d.TalentTitle, scheduleStr)

	if err := s.notifier.Emit(ctx, d.TalentOwnerID, notifmodel.TypeBookingCancelled,
		"Booking cancelled", msg, &d.TalentID, &d.ID); err != nil {
		logger.Warn("failed to emit booking_cancelled notification", map[string]interface{}{
			"booking_id": d.ID.String(), "error": err.Error(),
		})
	}
}

// ========================================
// UPDATE
// ========================================

// Update accepts a target status but only the confirmed to cancelled
// transition is legal; anything else is rejected.
func (s *bookingService) Update(ctx context.Context, callerID, bookingID uuid.UUID, req model.UpdateBookingRequest) (*model.BookingDetail, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. RESOLVE AND CHECK OWNERSHIP
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != callerID {
		return nil, model.ErrForbidden
	}

	// 3. TRANSITION TABLE
	if req.Status != model.StatusCancelled || booking.Status != model.StatusConfirmed {
		return nil, model.ErrInvalidTransition
	}

	// 4. SAME PATH AS CANCEL
	if err := s.repo.Cancel(ctx, bookingID); err != nil {
		return nil, err
	}

	middleware.CountBookingCancelled()

	detail, err := s.repo.FindDetailByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.notifyBookingCancelled(ctx, detail)

	return detail, nil
}

// ========================================
// EXPORT
// ========================================

// ExportReceivedBookings builds an .xlsx of all bookings on the
// caller's talents.
func (s *bookingService) ExportReceivedBookings(ctx context.Context, ownerID uuid.UUID) (*excelize.File, error) {
	bookings, err := s.repo.ListByTalentOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list received bookings: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Received bookings"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{
		"Booking ID",
		"Status",
		"Talent",
		"Category",
		"Date",
		"Start",
		"End",
		"Requester",
		"Requester Email",
		"Booked At",
	}

	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "J1", headerStyle)
	}

	for i, b := range bookings {
		rowNum := i + 2
		cell := func(col int) string {
			c, _ := excelize.CoordinatesToCellName(col, rowNum)
			return c
		}

		f.SetCellValue(sheetName, cell(1), b.ID.String())
		f.SetCellValue(sheetName, cell(2), b.Status)
		f.SetCellValue(sheetName, cell(3), b.TalentTitle)
		f.SetCellValue(sheetName, cell(4), b.TalentCategory)
		f.SetCellValue(sheetName, cell(5), b.ScheduleDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, cell(6), b.ScheduleStartTime)
		f.SetCellValue(sheetName, cell(7), b.ScheduleEndTime)
		f.SetCellValue(sheetName, cell(8), b.RequesterName)
		f.SetCellValue(sheetName, cell(9), b.RequesterEmail)
		f.SetCellValue(sheetName, cell(10), b.CreatedAt.Format(time.RFC3339))
	}

	f.SetColWidth(sheetName, "A", "A", 38)
	f.SetColWidth(sheetName, "B", "J", 18)

	return f, nil
}
