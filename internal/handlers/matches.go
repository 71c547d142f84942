package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/covematch/internal/middleware"
	"github.com/localnerve/covematch/internal/services"
	"github.com/localnerve/covematch/internal/types"
	"github.com/localnerve/covematch/internal/utils"
)

// MatchHandler handles member match routes
type MatchHandler struct {
	Lifecycle *services.Lifecycle
}

// FeedbackRequest is a member's note on why a match fit
type FeedbackRequest struct {
	MatchedOn   types.FlexList[string] `json:"matchedOn" swaggertype:"array,string"`
	WasAccurate *bool                  `json:"wasAccurate"`
}

// AcceptResponse carries the thread linked to an accepted match
type AcceptResponse struct {
	Ok       bool   `json:"ok"`
	MatchID  string `json:"matchId"`
	ThreadID string `json:"threadId"`
}

// ListMatches handles GET /api/matches
// @Summary List matches
// @Description List every match the caller belongs to, newest first
// @Tags Matches
// @Produce json
// @Success 200 {array} models.Match
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /matches [get]
func (h *MatchHandler) ListMatches(c *fiber.Ctx) error {
	who, ok := middleware.CallerFrom(c)
	if !ok {
		return caller403(c)
	}

	matches, err := h.Lifecycle.ListMatches(c.UserContext(), who.ID)
	if err != nil {
		return serviceError(c, err, "match.list")
	}
	return utils.SuccessResponse(c, matches, fiber.StatusOK)
}

// GetMatch handles GET /api/matches/:id
// @Summary Get match
// @Description Get a match with its members. Members and admins only.
// @Tags Matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} models.Match
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /matches/{id} [get]
func (h *MatchHandler) GetMatch(c *fiber.Ctx) error {
	who, ok := middleware.CallerFrom(c)
	if !ok {
		return caller403(c)
	}

	match, err := h.Lifecycle.GetMatch(c.UserContext(), who, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "match.get")
	}
	return utils.SuccessResponse(c, match, fiber.StatusOK)
}

// AcceptMatch handles POST /api/matches/:id/accept
// @Summary Accept match
// @Description Accept a pair match and link its messaging thread
// @Tags Matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} AcceptResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /matches/{id}/accept [post]
func (h *MatchHandler) AcceptMatch(c *fiber.Ctx) error {
	who, ok := middleware.CallerFrom(c)
	if !ok {
		return caller403(c)
	}

	matchID := c.Params("id")
	threadID, err := h.Lifecycle.AcceptMatch(c.UserContext(), who.ID, matchID)
	if err != nil {
		return serviceError(c, err, "match.accept")
	}

	return utils.SuccessResponse(c, AcceptResponse{Ok: true, MatchID: matchID, ThreadID: threadID}, fiber.StatusOK)
}

// DeclineMatch handles POST /api/matches/:id/decline
// @Summary Decline match
// @Description Decline an active match
// @Tags Matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /matches/{id}/decline [post]
func (h *MatchHandler) DeclineMatch(c *fiber.Ctx) error {
	who, ok := middleware.CallerFrom(c)
	if !ok {
		return caller403(c)
	}

	if err := h.Lifecycle.DeclineMatch(c.UserContext(), who.ID, c.Params("id")); err != nil {
		return serviceError(c, err, "match.decline")
	}
	return utils.MutationSuccessResponse(c, "Match declined")
}

// SubmitFeedback handles POST /api/matches/:id/feedback
// @Summary Submit match feedback
// @Description Record what a match was based on and whether it was accurate
// @Tags Matches
// @Accept json
// @Produce json
// @Param id path string true "Match ID"
// @Param body body FeedbackRequest true "Feedback"
// @Success 201 {object} models.MatchFeedback
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /matches/{id}/feedback [post]
func (h *MatchHandler) SubmitFeedback(c *fiber.Ctx) error {
	who, ok := middleware.CallerFrom(c)
	if !ok {
		return caller403(c)
	}

	var body FeedbackRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	feedback, err := h.Lifecycle.SubmitFeedback(c.UserContext(), who.ID, c.Params("id"), body.MatchedOn.Slice(), body.WasAccurate)
	if err != nil {
		return serviceError(c, err, "match.feedback")
	}
	return utils.SuccessResponse(c, feedback, fiber.StatusCreated)
}
