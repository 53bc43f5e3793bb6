// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoutes "attendance_backend/internals/features/attendance/route"
	attendanceService "attendance_backend/internals/features/attendance/service"
	reportRoutes "attendance_backend/internals/features/reports/route"
	reportService "attendance_backend/internals/features/reports/service"
	rosterRoutes "attendance_backend/internals/features/roster/route"
	rosterService "attendance_backend/internals/features/roster/service"

	"attendance_backend/internals/configs"
	"attendance_backend/internals/helpers/dbtime"
	"attendance_backend/internals/middlewares"
	authMiddleware "attendance_backend/internals/middlewares/auth"
)

// Services = satu set komponen domain yang dibagi HTTP & CLI.
type Services struct {
	Roster     *rosterService.RosterService
	Attendance *attendanceService.AttendanceService
	Workbook   *reportService.WorkbookService
}

// BuildServices merangkai roster, ledger, day query dan workbook.
// clock nil → jam sistem di zona deployment.
func BuildServices(db *gorm.DB, cfg configs.AppConfig, clock dbtime.Clock) *Services {
	loc := dbtime.LoadLocation(cfg.Timezone)
	if clock == nil {
		clock = dbtime.SystemClock{Loc: loc}
	}

	roster := rosterService.NewRosterService(db)
	ledger := attendanceService.NewLedgerService(db, clock, loc)
	days := attendanceService.NewDayQueryService(db)
	wb := reportService.NewWorkbookService(cfg.WorkbookPath)

	return &Services{
		Roster:     roster,
		Attendance: attendanceService.NewAttendanceService(roster, ledger, days, wb),
		Workbook:   wb,
	}
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg configs.AppConfig, svcs *Services) {
	startTime := time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db, cfg, startTime)

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api")
	attendanceRoutes.AttendancePublicRoutes(public, svcs.Attendance, middlewares.CheckinRateLimiter(cfg.CheckinLimit))

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (JWT admin)...")
	admin := app.Group("/api/a",
		authMiddleware.AdminJWT(authMiddleware.AdminJWTOpts{
			Secret:              cfg.AdminJWTSecret,
			AllowCookieFallback: true,
		}),
	)

	log.Println("[INFO] Mounting admin routes...")
	attendanceRoutes.AttendanceAdminRoutes(admin, svcs.Attendance)
	rosterRoutes.RosterAdminRoutes(admin, svcs.Roster)
	reportRoutes.ReportAdminRoutes(admin, svcs.Attendance)
}
