package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/covematch/internal/middleware"
	"github.com/localnerve/covematch/internal/services"
	"github.com/localnerve/covematch/internal/types"
	"github.com/localnerve/covematch/internal/utils"
)

// AdminHandler handles match creation and correction routes
type AdminHandler struct {
	Lifecycle *services.Lifecycle
}

// CreateMatchRequest forms a match from users with active intentions
type CreateMatchRequest struct {
	UserIDs  types.FlexList[string] `json:"userIds" swaggertype:"array,string"`
	TierUsed *types.FlexInt         `json:"tierUsed,omitempty" swaggertype:"integer"`
	Score    *float64               `json:"score,omitempty"`
}

// AddMemberRequest names the user to add
type AddMemberRequest struct {
	UserID string `json:"userId"`
}

// MoveMemberRequest moves a user between matches
type MoveMemberRequest struct {
	UserID      string `json:"userId"`
	FromMatchID string `json:"fromMatchId"`
	ToMatchID   string `json:"toMatchId"`
}

// ExpireResponse reports an expiry sweep
type ExpireResponse struct {
	Ok      bool  `json:"ok"`
	Expired int64 `json:"expired"`
}

func admin(c *fiber.Ctx) (services.Caller, bool) {
	who, ok := middleware.CallerFrom(c)
	return who, ok && who.IsAdmin
}

func admin403(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, "Administrative rights required", fiber.StatusForbidden, "match.authorization.admin")
}

// CreateMatch handles POST /api/admin/matches
// @Summary Create match
// @Description Form a match from two or more users with active intentions, consuming their pool entries
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body CreateMatchRequest true "Members and scoring"
// @Success 201 {object} models.Match
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/matches [post]
func (h *AdminHandler) CreateMatch(c *fiber.Ctx) error {
	if _, ok := admin(c); !ok {
		return admin403(c)
	}

	var body CreateMatchRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	match, err := h.Lifecycle.CreateMatch(c.UserContext(), services.CreateMatchInput{
		UserIDs:  body.UserIDs.Slice(),
		TierUsed: types.IntPtr(body.TierUsed),
		Score:    body.Score,
	})
	if err != nil {
		return serviceError(c, err, "match.create")
	}
	return utils.SuccessResponse(c, match, fiber.StatusCreated)
}

// DeleteMatch handles DELETE /api/admin/matches/:id
// @Summary Delete match
// @Description Delete a match, optionally returning its active members to the pool
// @Tags Admin
// @Produce json
// @Param id path string true "Match ID"
// @Param returnToPool query bool false "Release active members to the pool"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/matches/{id} [delete]
func (h *AdminHandler) DeleteMatch(c *fiber.Ctx) error {
	who, ok := admin(c)
	if !ok {
		return admin403(c)
	}

	if err := h.Lifecycle.DeleteMatch(c.UserContext(), who, c.Params("id"), c.QueryBool("returnToPool", false)); err != nil {
		return serviceError(c, err, "match.delete")
	}
	return utils.MutationSuccessResponse(c, "Match deleted")
}

// AddMember handles POST /api/admin/matches/:id/members
// @Summary Add match member
// @Description Add a user, bound to their active intention, to a match
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Match ID"
// @Param body body AddMemberRequest true "User to add"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/matches/{id}/members [post]
func (h *AdminHandler) AddMember(c *fiber.Ctx) error {
	who, ok := admin(c)
	if !ok {
		return admin403(c)
	}

	var body AddMemberRequest
	if err := c.BodyParser(&body); err != nil || body.UserID == "" {
		return invalidBody(c)
	}

	if err := h.Lifecycle.AddMember(c.UserContext(), who, c.Params("id"), body.UserID); err != nil {
		return serviceError(c, err, "match.addMember")
	}
	return utils.MutationSuccessResponse(c, "Member added")
}

// RemoveMember handles DELETE /api/admin/matches/:id/members/:userId
// @Summary Remove match member
// @Description Remove a user from a match. A pair match is deleted and its other member released.
// @Tags Admin
// @Produce json
// @Param id path string true "Match ID"
// @Param userId path string true "User ID"
// @Param returnToPool query bool false "Release the removed member to the pool"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/matches/{id}/members/{userId} [delete]
func (h *AdminHandler) RemoveMember(c *fiber.Ctx) error {
	who, ok := admin(c)
	if !ok {
		return admin403(c)
	}

	err := h.Lifecycle.RemoveMember(c.UserContext(), who, c.Params("id"), c.Params("userId"), c.QueryBool("returnToPool", false))
	if err != nil {
		return serviceError(c, err, "match.removeMember")
	}
	return utils.MutationSuccessResponse(c, "Member removed")
}

// MoveMember handles POST /api/admin/members/move
// @Summary Move match member
// @Description Move a user from one match to another
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body MoveMemberRequest true "Move"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/members/move [post]
func (h *AdminHandler) MoveMember(c *fiber.Ctx) error {
	who, ok := admin(c)
	if !ok {
		return admin403(c)
	}

	var body MoveMemberRequest
	if err := c.BodyParser(&body); err != nil || body.UserID == "" || body.FromMatchID == "" || body.ToMatchID == "" {
		return invalidBody(c)
	}

	if err := h.Lifecycle.MoveMember(c.UserContext(), who, body.UserID, body.FromMatchID, body.ToMatchID); err != nil {
		return serviceError(c, err, "match.moveMember")
	}
	return utils.MutationSuccessResponse(c, "Member moved")
}

// Audit handles GET /api/admin/audit
// @Summary Audit lifecycle invariants
// @Description Report intentions, pool entries and matches that break a lifecycle invariant
// @Tags Admin
// @Produce json
// @Success 200 {object} services.AuditReport
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/audit [get]
func (h *AdminHandler) Audit(c *fiber.Ctx) error {
	if _, ok := admin(c); !ok {
		return admin403(c)
	}

	report, err := h.Lifecycle.Audit(c.UserContext())
	if err != nil {
		return serviceError(c, err, "audit")
	}
	return utils.SuccessResponse(c, report, fiber.StatusOK)
}

// ExpireIntentions handles POST /api/admin/intentions/expire
// @Summary Expire intentions now
// @Description Run the expiry sweep immediately
// @Tags Admin
// @Produce json
// @Success 200 {object} ExpireResponse
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/intentions/expire [post]
func (h *AdminHandler) ExpireIntentions(c *fiber.Ctx) error {
	if _, ok := admin(c); !ok {
		return admin403(c)
	}

	expired, err := h.Lifecycle.ExpireIntentions(c.UserContext())
	if err != nil {
		return serviceError(c, err, "intention.expire")
	}
	return utils.SuccessResponse(c, ExpireResponse{Ok: true, Expired: expired}, fiber.StatusOK)
}
