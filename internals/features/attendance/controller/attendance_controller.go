package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"attendance_backend/internals/features/attendance/dto"
	"attendance_backend/internals/features/attendance/model"
	"attendance_backend/internals/features/attendance/service"
	helper "attendance_backend/internals/helpers"
	"attendance_backend/internals/helpers/apperr"
	"attendance_backend/internals/helpers/dbtime"
)

type AttendanceController struct {
	Svc       *service.AttendanceService
	Validator *validator.Validate
}

func NewAttendanceController(svc *service.AttendanceService) *AttendanceController {
	return &AttendanceController{
		Svc:       svc,
		Validator: validator.New(),
	}
}

// ParseDay membaca ?date=YYYY-MM-DD; kosong → hari ini (zona deployment).
func ParseDay(c *fiber.Ctx, today dbtime.Date) (dbtime.Date, error) {
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		return today, nil
	}
	d, err := dbtime.ParseDate(raw)
	if err != nil {
		return dbtime.Date{}, fiber.NewError(fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}
	return d, nil
}

// GET /api/token-status?token=
func (ctrl *AttendanceController) TokenStatus(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "token wajib diisi")
	}

	resp, err := ctrl.Svc.TokenStatus(c.UserContext(), token)
	if err != nil {
		return helper.FromAppError(c, err, nil)
	}
	return helper.JsonOK(c, "ok", resp)
}

// POST /api/checkin {token} | {vdash}
func (ctrl *AttendanceController) Submit(c *fiber.Ctx) error {
	var req dto.ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Token = strings.TrimSpace(req.Token)
	req.VDash = strings.TrimSpace(req.VDash)
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	key := req.VDash
	if req.Token != "" {
		u, err := ctrl.Svc.ResolveToken(ctx, req.Token)
		if err != nil {
			return helper.FromAppError(c, err, nil)
		}
		key = u.VDash
	}

	res, err := ctrl.Svc.Toggle(ctx, key)
	if err != nil {
		// ledger sudah commit; hanya workbook yang gagal
		if errors.Is(err, apperr.ErrReportUnavailable) && res.VDash != "" {
			return helper.FromAppError(c, err, res)
		}
		return helper.FromAppError(c, err, nil)
	}

	return helper.JsonOK(c, submitMessage(res.TransitionedTo), res)
}

func submitMessage(tr model.Transition) string {
	switch tr {
	case model.TransitionCheckedIn:
		return "Check-in berhasil"
	case model.TransitionCheckedOut:
		return "Check-out berhasil"
	default:
		return "Sudah check-in dan check-out hari ini"
	}
}

// GET /api/status/:vdash
func (ctrl *AttendanceController) Status(c *fiber.Ctx) error {
	st, err := ctrl.Svc.StatusOf(c.UserContext(), c.Params("vdash"))
	if err != nil {
		return helper.FromAppError(c, err, nil)
	}
	return helper.JsonOK(c, "ok", st)
}

// GET /api/a/report?date=
func (ctrl *AttendanceController) DailyReport(c *fiber.Ctx) error {
	day, err := ParseDay(c, ctrl.Svc.Today())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	records, err := ctrl.Svc.DailyReport(c.UserContext(), day)
	if err != nil {
		return helper.FromAppError(c, err, nil)
	}
	return helper.JsonList(c, day.String(), records, len(records))
}

// GET /api/a/dashboard?date=
func (ctrl *AttendanceController) Dashboard(c *fiber.Ctx) error {
	day, err := ParseDay(c, ctrl.Svc.Today())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	resp, err := ctrl.Svc.Dashboard(c.UserContext(), day)
	if err != nil {
		return helper.FromAppError(c, err, nil)
	}
	return helper.JsonOK(c, "ok", resp)
}
