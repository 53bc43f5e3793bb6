package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	database "attendance_backend/internals/databases"
	"attendance_backend/internals/features/attendance/dto"
	"attendance_backend/internals/features/attendance/model"
	rosterModel "attendance_backend/internals/features/roster/model"
	"attendance_backend/internals/helpers/apperr"
	"attendance_backend/internals/helpers/dbtime"
)

// LedgerService memegang state machine presensi per (vdash, hari):
// ABSENT → CHECKED_IN → CHECKED_OUT. Tidak ada transisi mundur.
//
// Satu baris per (vdash, hari) dijaga oleh unique index di store;
// kalah race saat insert muncul sebagai ErrConstraintViolation.
type LedgerService struct {
	DB    *gorm.DB
	Clock dbtime.Clock
	Loc   *time.Location
}

func NewLedgerService(db *gorm.DB, clock dbtime.Clock, loc *time.Location) *LedgerService {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = dbtime.SystemClock{Loc: loc}
	}
	return &LedgerService{DB: db, Clock: clock, Loc: loc}
}

// Today: tanggal hari ini menurut jam ledger di zona deployment.
func (s *LedgerService) Today() dbtime.Date {
	return s.dayOf(s.Clock.Now())
}

func (s *LedgerService) local(now time.Time) time.Time {
	return now.In(s.Loc)
}

func (s *LedgerService) dayOf(now time.Time) dbtime.Date {
	return dbtime.DateOf(s.local(now))
}

// Find: baris ledger untuk (key, day), nil kalau belum ada.
func (s *LedgerService) Find(ctx context.Context, key string, day dbtime.Date) (*model.CheckinModel, error) {
	key = rosterModel.NormalizeKey(key)
	var m model.CheckinModel
	err := s.DB.WithContext(ctx).
		Where("vdash = ? AND checkin_date = ?", key, day).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("find checkin", err)
	}
	return &m, nil
}

// CheckIn membuat baris hari ini. Gagal ErrAlreadyCheckedIn kalau sudah ada.
func (s *LedgerService) CheckIn(ctx context.Context, key string, now time.Time) (*model.CheckinModel, error) {
	key = rosterModel.NormalizeKey(key)
	if key == "" {
		return nil, fmt.Errorf("check-in: vdash kosong: %w", apperr.ErrNotFound)
	}
	existing, err := s.Find(ctx, key, s.dayOf(now))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("check-in %s: %w", key, apperr.ErrAlreadyCheckedIn)
	}
	return s.insert(ctx, key, now)
}

// CheckOut menutup baris hari ini.
// ErrNotCheckedIn kalau belum ada baris, ErrAlreadyCheckedOut kalau sudah tertutup.
func (s *LedgerService) CheckOut(ctx context.Context, key string, now time.Time) (*model.CheckinModel, error) {
	key = rosterModel.NormalizeKey(key)
	if key == "" {
		return nil, fmt.Errorf("check-out: vdash kosong: %w", apperr.ErrNotFound)
	}
	rec, err := s.Find(ctx, key, s.dayOf(now))
	if err != nil {
		return nil, err
	}
	switch model.StateOf(rec) {
	case model.StateAbsent:
		return nil, fmt.Errorf("check-out %s: %w", key, apperr.ErrNotCheckedIn)
	case model.StateCheckedOut:
		return nil, fmt.Errorf("check-out %s: %w", key, apperr.ErrAlreadyCheckedOut)
	}
	if err := s.close(ctx, rec, now); err != nil {
		return nil, err
	}
	return rec, nil
}

// Toggle memakai jam ledger sendiri; client tidak pernah menentukan tanggal.
func (s *LedgerService) Toggle(ctx context.Context, key string) (model.Transition, *model.CheckinModel, error) {
	return s.ToggleAt(ctx, key, s.Clock.Now())
}

// ToggleAt: ABSENT → check-in, CHECKED_IN → check-out, CHECKED_OUT → no-op.
// Keputusan diambil dari satu kali baca. Kalau insert kalah race
// (ErrConstraintViolation), toggle lain sudah check-in di detik yang sama:
// baris dibaca ulang dan hasilnya NONE, bukan check-out.
func (s *LedgerService) ToggleAt(ctx context.Context, key string, now time.Time) (model.Transition, *model.CheckinModel, error) {
	key = rosterModel.NormalizeKey(key)
	if key == "" {
		return model.TransitionNone, nil, fmt.Errorf("toggle: vdash kosong: %w", apperr.ErrNotFound)
	}
	tr, rec, err := s.toggleOnce(ctx, key, now)
	if errors.Is(err, apperr.ErrConstraintViolation) {
		log.Printf("🔁 toggle %s kalah race, baca ulang", key)
		fresh, ferr := s.Find(ctx, key, s.dayOf(now))
		if ferr != nil {
			return model.TransitionNone, nil, ferr
		}
		if fresh == nil {
			return model.TransitionNone, nil, err
		}
		return model.TransitionNone, fresh, nil
	}
	if err != nil {
		return model.TransitionNone, nil, err
	}
	return tr, rec, nil
}

func (s *LedgerService) toggleOnce(ctx context.Context, key string, now time.Time) (model.Transition, *model.CheckinModel, error) {
	rec, err := s.Find(ctx, key, s.dayOf(now))
	if err != nil {
		return model.TransitionNone, nil, err
	}

	switch model.StateOf(rec) {
	case model.StateAbsent:
		created, err := s.insert(ctx, key, now)
		if err != nil {
			return model.TransitionNone, nil, err
		}
		return model.TransitionCheckedIn, created, nil

	case model.StateCheckedIn:
		err := s.close(ctx, rec, now)
		if errors.Is(err, apperr.ErrAlreadyCheckedOut) {
			// toggle lain sudah menutup baris ini duluan
			fresh, ferr := s.Find(ctx, key, rec.CheckinDate)
			return model.TransitionNone, fresh, ferr
		}
		if err != nil {
			return model.TransitionNone, nil, err
		}
		return model.TransitionCheckedOut, rec, nil

	default:
		return model.TransitionNone, rec, nil
	}
}

func (s *LedgerService) insert(ctx context.Context, key string, now time.Time) (*model.CheckinModel, error) {
	day := s.dayOf(now)
	rec := &model.CheckinModel{
		VDash:       key,
		CheckinDate: day,
		CheckinTime: dbtime.From(s.local(now)),
	}
	if err := s.DB.WithContext(ctx).Create(rec).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, fmt.Errorf("check-in %s %s: %w: %w", key, day, apperr.ErrAlreadyCheckedIn, apperr.ErrConstraintViolation)
		}
		return nil, apperr.Store("insert checkin", err)
	}
	return rec, nil
}

// close mengisi checkout_time hanya kalau masih NULL (update bersyarat).
// Checkout lebih awal dari check-in diterima tapi ditandai anomaly.
func (s *LedgerService) close(ctx context.Context, rec *model.CheckinModel, now time.Time) error {
	out := dbtime.From(s.local(now))
	anomaly := out.Before(rec.CheckinTime)

	res := s.DB.WithContext(ctx).
		Model(&model.CheckinModel{}).
		Where("id = ? AND checkout_time IS NULL", rec.ID).
		Updates(map[string]any{
			"checkout_time": out,
			"anomaly":       anomaly,
		})
	if res.Error != nil {
		return apperr.Store("update checkout", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("check-out %s: %w", rec.VDash, apperr.ErrAlreadyCheckedOut)
	}
	if anomaly {
		log.Printf("⚠️ checkout %s (%s) lebih awal dari check-in %s, ditandai anomaly",
			rec.VDash, out.HHMM(), rec.CheckinTime.HHMM())
	}
	rec.CheckoutTime = &out
	rec.Anomaly = anomaly
	return nil
}

/* ===================== QUERIES ===================== */

func (s *LedgerService) StateOn(ctx context.Context, key string, day dbtime.Date) (model.State, error) {
	rec, err := s.Find(ctx, key, day)
	if err != nil {
		return model.StateAbsent, err
	}
	return model.StateOf(rec), nil
}

func (s *LedgerService) IsCheckedIn(ctx context.Context, key string, day dbtime.Date) (bool, error) {
	st, err := s.StateOn(ctx, key, day)
	return st != model.StateAbsent, err
}

func (s *LedgerService) IsCheckedOut(ctx context.Context, key string, day dbtime.Date) (bool, error) {
	st, err := s.StateOn(ctx, key, day)
	return st == model.StateCheckedOut, err
}

// CheckinTimeOf: "HH:MM" atau "" kalau belum check-in.
func (s *LedgerService) CheckinTimeOf(ctx context.Context, key string, day dbtime.Date) (string, error) {
	rec, err := s.Find(ctx, key, day)
	if err != nil || rec == nil {
		return "", err
	}
	return rec.CheckinTime.HHMM(), nil
}

// CheckoutTimeOf: "HH:MM" atau "" kalau belum check-out.
func (s *LedgerService) CheckoutTimeOf(ctx context.Context, key string, day dbtime.Date) (string, error) {
	rec, err := s.Find(ctx, key, day)
	if err != nil || rec == nil {
		return "", err
	}
	return dbtime.HHMMPtr(rec.CheckoutTime), nil
}

// StatusOf: status hari ini untuk satu identitas.
func (s *LedgerService) StatusOf(ctx context.Context, key string) (dto.Status, error) {
	rec, err := s.Find(ctx, key, s.Today())
	if err != nil {
		return dto.Status{}, err
	}
	return dto.StatusFromModel(rosterModel.DisplayKey(key), rec), nil
}
