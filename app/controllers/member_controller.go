package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/RamilOcampo/GymDesk/app/models"
	"github.com/RamilOcampo/GymDesk/app/repository"
	"github.com/RamilOcampo/GymDesk/internal/pkg/membership"
	"github.com/RamilOcampo/GymDesk/internal/pkg/mirror"
	"github.com/RamilOcampo/GymDesk/internal/pkg/photostore"
)

type memberRequest struct {
	MemberCode string `json:"member_code"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	BirthDate  string `json:"birth_date"`
	Student    *bool  `json:"student"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

func memberResponse(m *models.Member) fiber.Map {
	return fiber.Map{
		"id":             m.ID,
		"member_code":    m.MemberCode,
		"first_name":     m.FirstName,
		"last_name":      m.LastName,
		"full_name":      m.FullName(),
		"email":          m.Email,
		"phone":          m.Phone,
		"birth_date":     formatDayPtr(m.BirthDate),
		"student":        m.Student,
		"status":         m.Status,
		"membership_end": formatDayPtr(m.MembershipEnd),
		"coach_end":      formatDayPtr(m.CoachEnd),
		"photo_path":     m.PhotoPath,
		"notes":          m.Notes,
		"created_at":     m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// mirrorMember pushes the member document to the Firestore mirror.
func mirrorMember(m *models.Member) {
	mirror.Enqueue(mirror.JobTypeMirrorMember, mirror.CollectionMembers, m.MemberCode, map[string]any{
		"memberCode":    m.MemberCode,
		"firstName":     m.FirstName,
		"lastName":      m.LastName,
		"email":         m.Email,
		"phone":         m.Phone,
		"student":       m.Student,
		"status":        m.Status,
		"membershipEnd": formatDayPtr(m.MembershipEnd),
		"coachEnd":      formatDayPtr(m.CoachEnd),
		"updatedAt":     m.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

// HandleListMembers returns a page of members, optionally filtered by a
// search query over code, name and email.
func HandleListMembers(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetMemberRepository()

	if query := c.Query("q"); query != "" {
		members, err := repo.Search(query)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to search members")
		}
		items := make([]fiber.Map, 0, len(members))
		for i := range members {
			items = append(items, memberResponse(&members[i]))
		}
		return c.JSON(fiber.Map{"members": items, "total": len(items)})
	}

	offset, limit := parsePagination(c)
	members, err := repo.List(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list members")
	}
	total, err := repo.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count members")
	}

	items := make([]fiber.Map, 0, len(members))
	for i := range members {
		items = append(items, memberResponse(&members[i]))
	}
	return c.JSON(fiber.Map{"members": items, "total": total})
}

// HandleCreateMember registers a new member.
func HandleCreateMember(c *fiber.Ctx) error {
	var req memberRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	member := &models.Member{
		MemberCode: req.MemberCode,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Status:     models.MEMBER_STATUS_ACTIVE,
		Notes:      req.Notes,
	}
	if req.Student != nil {
		member.Student = *req.Student
	}
	if req.Status != "" {
		member.Status = req.Status
	}
	if req.BirthDate != "" {
		day, ok := membership.ParseDay(req.BirthDate)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "birth_date must be YYYY-MM-DD")
		}
		member.BirthDate = &day
	}
	if err := member.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	repo := repository.GetGlobalFactory().GetMemberRepository()
	if existing, err := repo.GetByCode(models.NormalizeCode(req.MemberCode)); err == nil && existing != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Member code is already taken")
	}
	if err := repo.Create(member); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create member")
	}

	mirrorMember(member)
	log.Infof("[Member] Created member %s (%s)", member.MemberCode, member.FullName())

	return c.Status(fiber.StatusCreated).JSON(memberResponse(member))
}

// findMember resolves the :code route param to a member. On failure the
// error response has already been written and a nil member is returned.
func findMember(c *fiber.Ctx) (*models.Member, error) {
	code := models.NormalizeCode(c.Params("code"))
	if code == "" {
		return nil, jsonError(c, fiber.StatusBadRequest, "bad_request", "Member code missing")
	}
	member, err := repository.GetGlobalFactory().GetMemberRepository().GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jsonError(c, fiber.StatusNotFound, "not_found", "Member not found")
		}
		return nil, jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load member")
	}
	return member, nil
}

// HandleGetMember returns one member.
func HandleGetMember(c *fiber.Ctx) error {
	member, err := findMember(c)
	if member == nil {
		return err
	}
	return c.JSON(memberResponse(member))
}

// applyMemberUpdate copies the submitted request fields onto the member.
// Omitted fields keep their stored values; student is a pointer so that a
// partial update without it does not clear the flag.
func applyMemberUpdate(member *models.Member, req *memberRequest) error {
	if req.FirstName != "" {
		member.FirstName = req.FirstName
	}
	if req.LastName != "" {
		member.LastName = req.LastName
	}
	if req.Email != "" {
		member.Email = req.Email
	}
	if req.Phone != "" {
		member.Phone = req.Phone
	}
	if req.Status != "" {
		member.Status = req.Status
	}
	if req.Notes != "" {
		member.Notes = req.Notes
	}
	if req.Student != nil {
		member.Student = *req.Student
	}
	if req.BirthDate != "" {
		day, ok := membership.ParseDay(req.BirthDate)
		if !ok {
			return errors.New("birth_date must be YYYY-MM-DD")
		}
		member.BirthDate = &day
	}
	return nil
}

// HandleUpdateMember updates member master data.
func HandleUpdateMember(c *fiber.Ctx) error {
	member, err := findMember(c)
	if member == nil {
		return err
	}

	var req memberRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if err := applyMemberUpdate(member, &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	if err := member.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetMemberRepository().Update(member); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update member")
	}

	mirrorMember(member)
	return c.JSON(memberResponse(member))
}

// HandleDeleteMember soft-deletes a member.
func HandleDeleteMember(c *fiber.Ctx) error {
	member, err := findMember(c)
	if member == nil {
		return err
	}
	if err := repository.GetGlobalFactory().GetMemberRepository().Delete(member.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete member")
	}
	log.Infof("[Member] Deleted member %s", member.MemberCode)
	return c.JSON(fiber.Map{"message": "Member deleted"})
}

// HandleGetMemberStatus re-derives the member's entitlement status from the
// full payment history and refreshes the denormalized columns when they
// drifted.
func HandleGetMemberStatus(c *fiber.Ctx) error {
	member, err := findMember(c)
	if member == nil {
		return err
	}

	status, _, err := resolveMemberStatus(member, time.Now())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to resolve member status")
	}

	syncEntitlements(member, status)

	return c.JSON(fiber.Map{
		"member_code": member.MemberCode,
		"status":      statusResponse(status),
	})
}

// syncEntitlements writes the derived end dates back onto the member row
// when the stored copies differ. Failure is logged, never surfaced.
func syncEntitlements(member *models.Member, status membership.Status) {
	if sameDay(member.MembershipEnd, status.MembershipEnd) && sameDay(member.CoachEnd, status.CoachEnd) {
		return
	}
	repo := repository.GetGlobalFactory().GetMemberRepository()
	if err := repo.UpdateEntitlements(member.ID, status.MembershipEnd, status.CoachEnd); err != nil {
		log.Warnf("[Member] Failed to sync entitlements for %s: %v", member.MemberCode, err)
		return
	}
	member.MembershipEnd = status.MembershipEnd
	member.CoachEnd = status.CoachEnd
	mirrorMember(member)
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return membership.DayString(*a) == membership.DayString(*b)
}

// HandleUploadMemberPhoto accepts a multipart photo upload and stores the
// normalized copy.
func HandleUploadMemberPhoto(c *fiber.Ctx) error {
	member, err := findMember(c)
	if member == nil {
		return err
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Photo file missing")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Failed to read photo file")
	}
	defer file.Close()

	store, err := photostore.NewStoreFromEnv()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Photo storage unavailable")
	}
	photoPath, thumbPath, err := store.Save(member.MemberCode, file)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "unprocessable_entity", "Could not process photo")
	}

	member.PhotoPath = photoPath
	member.PhotoThumbPath = thumbPath
	if err := repository.GetGlobalFactory().GetMemberRepository().Update(member); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save photo path")
	}

	return c.JSON(fiber.Map{"photo_path": photoPath, "photo_thumb_path": thumbPath})
}
