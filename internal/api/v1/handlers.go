package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to the controllers to keep response shapes consistent
	// between the kiosk API and the staff API.
	"github.com/RamilOcampo/GymDesk/app/controllers"
	"github.com/RamilOcampo/GymDesk/app/models"
	"github.com/RamilOcampo/GymDesk/internal/pkg/usercontext"
)

// APIServer carries the kiosk-facing v1 handlers. Authentication is
// enforced by the API key middleware attached in the router.
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ping": "pong"})
}

type kioskCheckInRequest struct {
	MemberCode string `json:"member_code"`
}

// PostCheckIn gates a member through the self-service kiosk. The check-in
// is attributed to the staff account that owns the kiosk's API key.
func (s *APIServer) PostCheckIn(c *fiber.Ctx) error {
	var req kioskCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if req.MemberCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "member_code is required"})
	}

	var staffID *uint
	if id := usercontext.GetStaffID(c); id != 0 {
		staffID = &id
	}
	return controllers.PerformCheckIn(c, req.MemberCode, models.ATTENDANCE_SOURCE_KIOSK, staffID)
}

// GetMemberStatus returns the entitlement status for a member code, for
// kiosks that show the member their remaining validity after scanning.
func (s *APIServer) GetMemberStatus(c *fiber.Ctx) error {
	return controllers.HandleGetMemberStatus(c)
}
