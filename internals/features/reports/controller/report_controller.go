package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	attendanceController "attendance_backend/internals/features/attendance/controller"
	"attendance_backend/internals/features/attendance/service"
	helper "attendance_backend/internals/helpers"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	Svc *service.AttendanceService
}

func NewReportController(svc *service.AttendanceService) *ReportController {
	return &ReportController{Svc: svc}
}

// GET /api/a/download/excel?date= → workbook utuh, sheet hari itu dibuat ulang dulu
func (ctrl *ReportController) DownloadExcel(c *fiber.Ctx) error {
	day, err := attendanceController.ParseDay(c, ctrl.Svc.Today())
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	b, err := ctrl.Svc.ExportReport(c.UserContext(), day)
	if err != nil {
		return helper.FromAppError(c, err, nil)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="checkins_%s.xlsx"`, day))
	return c.Status(fiber.StatusOK).Send(b)
}
