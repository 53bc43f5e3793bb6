package route

import (
	"attendance_backend/internals/features/attendance/controller"
	"attendance_backend/internals/features/attendance/service"

	"github.com/gofiber/fiber/v2"
)

// Publik: halaman presensi (token / dropdown)
func AttendancePublicRoutes(api fiber.Router, svc *service.AttendanceService, checkinLimiter fiber.Handler) {
	ctrl := controller.NewAttendanceController(svc)

	api.Get("/token-status", ctrl.TokenStatus)
	api.Get("/status/:vdash", ctrl.Status)
	if checkinLimiter != nil {
		api.Post("/checkin", checkinLimiter, ctrl.Submit)
	} else {
		api.Post("/checkin", ctrl.Submit)
	}
}

// Admin: /api/a/report, /api/a/dashboard
func AttendanceAdminRoutes(admin fiber.Router, svc *service.AttendanceService) {
	ctrl := controller.NewAttendanceController(svc)

	admin.Get("/report", ctrl.DailyReport)
	admin.Get("/dashboard", ctrl.Dashboard)
}
