package controller

import (
	"github.com/gofiber/fiber/v2"

	"attendance_backend/internals/features/roster/service"
	helper "attendance_backend/internals/helpers"
)

type RosterController struct {
	Svc *service.RosterService
}

func NewRosterController(svc *service.RosterService) *RosterController {
	return &RosterController{Svc: svc}
}

// GET /api/a/roster → semua vdash (tampilan uppercase, urut)
func (ctrl *RosterController) List(c *fiber.Ctx) error {
	keys, err := ctrl.Svc.ListRoster(c.UserContext())
	if err != nil {
		return helper.FromAppError(c, err, nil)
	}
	return helper.JsonList(c, "ok", keys, len(keys))
}
