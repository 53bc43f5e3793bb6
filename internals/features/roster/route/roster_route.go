package route

import (
	"attendance_backend/internals/features/roster/controller"
	"attendance_backend/internals/features/roster/service"

	"github.com/gofiber/fiber/v2"
)

func RosterAdminRoutes(admin fiber.Router, svc *service.RosterService) {
	ctrl := controller.NewRosterController(svc)

	admin.Get("/roster", ctrl.List)
}
