package route

import (
	"attendance_backend/internals/features/attendance/service"
	"attendance_backend/internals/features/reports/controller"

	"github.com/gofiber/fiber/v2"
)

func ReportAdminRoutes(admin fiber.Router, svc *service.AttendanceService) {
	ctrl := controller.NewReportController(svc)

	admin.Get("/download/excel", ctrl.DownloadExcel)
}
