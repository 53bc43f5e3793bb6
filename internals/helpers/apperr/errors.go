// Package apperr berisi taksonomi error domain presensi.
// Semua layer membungkus sentinel di bawah dengan fmt.Errorf("...: %w", ...)
// supaya controller bisa memetakan ke status HTTP lewat errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyCheckedIn    = errors.New("already checked in")
	ErrAlreadyCheckedOut   = errors.New("already checked out")
	ErrNotCheckedIn        = errors.New("not checked in")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrReportUnavailable   = errors.New("report unavailable")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// Store membungkus error dari database/driver sebagai StoreUnavailable,
// error aslinya tetap bisa di-unwrap.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// Report membungkus kegagalan baca/tulis workbook.
func Report(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrReportUnavailable, err)
}

// Code mengembalikan kode stabil untuk response JSON.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrAlreadyCheckedIn):
		return "ALREADY_CHECKED_IN"
	case errors.Is(err, ErrAlreadyCheckedOut):
		return "ALREADY_CHECKED_OUT"
	case errors.Is(err, ErrNotCheckedIn):
		return "NOT_CHECKED_IN"
	case errors.Is(err, ErrConstraintViolation):
		return "CONSTRAINT_VIOLATION"
	case errors.Is(err, ErrReportUnavailable):
		return "REPORT_UNAVAILABLE"
	case errors.Is(err, ErrStoreUnavailable):
		return "STORE_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}
