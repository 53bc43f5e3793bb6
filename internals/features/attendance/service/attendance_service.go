package service

import (
	"context"
	"errors"
	"fmt"

	"attendance_backend/internals/features/attendance/dto"
	"attendance_backend/internals/features/attendance/model"
	rosterModel "attendance_backend/internals/features/roster/model"
	rosterService "attendance_backend/internals/features/roster/service"
	"attendance_backend/internals/helpers/apperr"
	"attendance_backend/internals/helpers/dbtime"
)

// DayMaterializer = Report Materializer dilihat dari sisi ledger.
type DayMaterializer interface {
	MaterializeDay(day dbtime.Date, records []dto.DayRecord) error
	Bytes() ([]byte, error)
}

// AttendanceService = kontrak operasi untuk gateway HTTP & CLI.
type AttendanceService struct {
	Roster  *rosterService.RosterService
	Ledger  *LedgerService
	Days    *DayQueryService
	Reports DayMaterializer
}

func NewAttendanceService(roster *rosterService.RosterService, ledger *LedgerService, days *DayQueryService, reports DayMaterializer) *AttendanceService {
	return &AttendanceService{Roster: roster, Ledger: ledger, Days: days, Reports: reports}
}

func (s *AttendanceService) Today() dbtime.Date {
	return s.Ledger.Today()
}

func (s *AttendanceService) ResolveToken(ctx context.Context, token string) (*rosterModel.UserModel, error) {
	return s.Roster.ResolveToken(ctx, token)
}

// Toggle: identitas harus ada di roster. Setelah transisi, sheet hari itu
// dibuat ulang; kalau gagal, hasil toggle (yang sudah commit) tetap
// dikembalikan bersama ErrReportUnavailable.
func (s *AttendanceService) Toggle(ctx context.Context, key string) (dto.ToggleResult, error) {
	u, err := s.Roster.GetByKey(ctx, key)
	if err != nil {
		return dto.ToggleResult{}, err
	}

	tr, rec, err := s.Ledger.Toggle(ctx, u.VDash)
	if err != nil {
		return dto.ToggleResult{}, err
	}
	display := rosterModel.DisplayKey(u.VDash)
	res := dto.ToggleResult{
		VDash:          display,
		TransitionedTo: tr,
		Status:         dto.StatusFromModel(display, rec),
	}

	if tr != model.TransitionNone && rec != nil && s.Reports != nil {
		if err := s.materialize(ctx, rec.CheckinDate); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *AttendanceService) StatusOf(ctx context.Context, key string) (dto.Status, error) {
	u, err := s.Roster.GetByKey(ctx, key)
	if err != nil {
		return dto.Status{}, err
	}
	return s.Ledger.StatusOf(ctx, u.VDash)
}

// TokenStatus: token tidak dikenal → valid=false, bukan error.
func (s *AttendanceService) TokenStatus(ctx context.Context, token string) (dto.TokenStatusResponse, error) {
	u, err := s.Roster.ResolveToken(ctx, token)
	if errors.Is(err, apperr.ErrNotFound) {
		return dto.TokenStatusResponse{Valid: false}, nil
	}
	if err != nil {
		return dto.TokenStatusResponse{}, err
	}
	st, err := s.Ledger.StatusOf(ctx, u.VDash)
	if err != nil {
		return dto.TokenStatusResponse{}, err
	}

	resp := dto.TokenStatusResponse{
		Valid:         true,
		VDash:         st.VDash,
		FullName:      u.FullName(),
		HasCheckedIn:  st.CheckedIn,
		HasCheckedOut: st.CheckedOut,
	}
	if st.CheckedIn {
		resp.CheckinTime = &st.CheckinTime
	}
	if st.CheckedOut {
		resp.CheckoutTime = &st.CheckoutTime
	}
	return resp, nil
}

func (s *AttendanceService) DailyReport(ctx context.Context, day dbtime.Date) ([]dto.DayRecord, error) {
	return s.Days.RecordsForDay(ctx, day)
}

// ExportReport: sheet hari itu dibuat ulang lalu workbook utuh dikembalikan.
func (s *AttendanceService) ExportReport(ctx context.Context, day dbtime.Date) ([]byte, error) {
	if err := s.materialize(ctx, day); err != nil {
		return nil, err
	}
	return s.Reports.Bytes()
}

func (s *AttendanceService) ListRoster(ctx context.Context) ([]string, error) {
	return s.Roster.ListRoster(ctx)
}

func (s *AttendanceService) Dashboard(ctx context.Context, day dbtime.Date) (dto.DashboardResponse, error) {
	records, err := s.Days.RecordsForDay(ctx, day)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	total, err := s.Roster.Count(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	return dto.DashboardResponse{
		Date:       day.String(),
		TotalUsers: total,
		Present:    len(records),
		Records:    records,
	}, nil
}

func (s *AttendanceService) materialize(ctx context.Context, day dbtime.Date) error {
	if s.Reports == nil {
		return fmt.Errorf("materialize %s: %w", day, apperr.ErrReportUnavailable)
	}
	records, err := s.Days.RecordsForDay(ctx, day)
	if err != nil {
		return err
	}
	return s.Reports.MaterializeDay(day, records)
}
