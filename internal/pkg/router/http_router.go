package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RamilOcampo/GymDesk/app/controllers"
	"github.com/RamilOcampo/GymDesk/internal/pkg/middleware"
	"github.com/RamilOcampo/GymDesk/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply StaffContext middleware globally as first middleware
	app.Use(middleware.StaffContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerStaffRoutes(app)
	h.registerAdminRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Post("/login", controllers.HandleLogin)
	app.Post("/logout", controllers.HandleLogout)
}

func (h HttpRouter) registerStaffRoutes(app *fiber.App) {
	staff := app.Group("/desk", middleware.RequireStaff)

	staff.Get("/me", controllers.HandleMe)

	// Members
	staff.Get("/members", controllers.HandleListMembers)
	staff.Post("/members", controllers.HandleCreateMember)
	staff.Get("/members/:code", controllers.HandleGetMember)
	staff.Put("/members/:code", controllers.HandleUpdateMember)
	staff.Delete("/members/:code", controllers.HandleDeleteMember)
	staff.Get("/members/:code/status", controllers.HandleGetMemberStatus)
	staff.Post("/members/:code/photo", controllers.HandleUploadMemberPhoto)
	staff.Get("/members/:code/payments", controllers.HandleMemberPayments)
	staff.Get("/members/:code/attendance", controllers.HandleMemberAttendance)

	// Payments
	staff.Get("/payments", controllers.HandleListPayments)
	staff.Post("/payments", controllers.HandleCreatePayment)
	staff.Get("/payments/:receipt", controllers.HandleGetPayment)

	// Attendance
	staff.Post("/checkin", controllers.HandleCheckIn)
	staff.Get("/attendance", controllers.HandleListAttendance)

	// Catalog (read side for the sales screen)
	staff.Get("/catalog", controllers.HandleListPricingRules)
	staff.Get("/catalog/:id", controllers.HandleGetPricingRule)
}

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin)

	// Staff accounts
	adminGroup.Get("/staff", controllers.HandleAdminListStaff)
	adminGroup.Post("/staff", controllers.HandleAdminCreateStaff)
	adminGroup.Put("/staff/:id", controllers.HandleAdminUpdateStaff)
	adminGroup.Delete("/staff/:id", controllers.HandleAdminDeleteStaff)
	adminGroup.Post("/staff/:id/api-key", controllers.HandleAdminIssueAPIKey)
	adminGroup.Delete("/staff/:id/api-key", controllers.HandleAdminRevokeAPIKey)

	// Catalog management
	adminGroup.Post("/catalog", controllers.HandleCreatePricingRule)
	adminGroup.Put("/catalog/:id", controllers.HandleUpdatePricingRule)
	adminGroup.Delete("/catalog/:id", controllers.HandleDeletePricingRule)

	// Dashboard
	adminGroup.Get("/stats", controllers.HandleAdminStats)
}
