package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RamilOcampo/GymDesk/internal/pkg/middleware"
)

// RegisterHandlers wires the kiosk v1 routes onto the given group. Every
// route sits behind the API key middleware.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Use(middleware.APIKeyAuthMiddleware())

	router.Get("/ping", s.GetPing)
	router.Post("/checkin", s.PostCheckIn)
	router.Get("/members/:code/status", s.GetMemberStatus)
}
