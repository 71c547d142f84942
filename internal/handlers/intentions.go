// intentions.go
//
// Intention, pool and match lifecycle service for the coves social app
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of covematch.
// covematch is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// covematch is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with covematch.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/covematch/internal/middleware"
	"github.com/localnerve/covematch/internal/services"
	"github.com/localnerve/covematch/internal/types"
	"github.com/localnerve/covematch/internal/utils"
)

// IntentionHandler handles the caller's own intention routes
type IntentionHandler struct {
	Lifecycle *services.Lifecycle
}

// CreateIntentionRequest carries the intention chips
type CreateIntentionRequest struct {
	IntentionText string                 `json:"intentionText"`
	Activities    types.FlexList[string] `json:"activities" swaggertype:"array,string"`
	Availability  types.FlexList[string] `json:"availability" swaggertype:"array,string"`
	Location      string                 `json:"location"`
}

// Chips converts the request to service chips
func (r CreateIntentionRequest) Chips() services.Chips {
	return services.Chips{
		IntentionText: r.IntentionText,
		Activities:    types.CleanStrings(r.Activities),
		Availability:  types.CleanStrings(r.Availability),
		Location:      r.Location,
	}
}

// caller403 answers a request that reached a handler without a resolved caller
func caller403(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, "Caller not resolved", fiber.StatusForbidden, "match.authorization.user")
}

func invalidBody(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "request.invalidBody")
}

// CreateIntention handles POST /api/intentions
// @Summary Create intention
// @Description Open the caller's active intention and enter the matching pool
// @Tags Intentions
// @Accept json
// @Produce json
// @Param body body CreateIntentionRequest true "Intention chips"
// @Success 201 {object} services.IntentionResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /intentions [post]
func (h *IntentionHandler) CreateIntention(c *fiber.Ctx) error {
	who, ok := middleware.CallerFrom(c)
	if !ok {
		return caller403(c)
	}

	var body CreateIntentionRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	result, err := h.Lifecycle.CreateIntention(c.UserContext(), who.ID, body.Chips())
	if err != nil {
		return serviceError(c, err, "intention.create")
	}

	return utils.SuccessResponse(c, result, fiber.StatusCreated)
}

// GetStatus handles GET /api/intentions/status
// @Summary Get intention status
// @Description Get the caller's active intention, pool entry and match state
// @Tags Intentions
// @Produce json
// @Success 200 {object} services.StatusResult
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /intentions/status [get]
func (h *IntentionHandler) GetStatus(c *fiber.Ctx) error {
	who, ok := middleware.CallerFrom(c)
	if !ok {
		return caller403(c)
	}

	status, err := h.Lifecycle.GetStatus(c.UserContext(), who.ID)
	if err != nil {
		return serviceError(c, err, "intention.status")
	}

	return utils.SuccessResponse(c, status, fiber.StatusOK)
}

// DeleteIntention handles DELETE /api/intentions/:id
// @Summary Delete intention
// @Description Delete one of the caller's intentions and its pool entry
// @Tags Intentions
// @Produce json
// @Param id path string true "Intention ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /intentions/{id} [delete]
func (h *IntentionHandler) DeleteIntention(c *fiber.Ctx) error {
	who, ok := middleware.CallerFrom(c)
	if !ok {
		return caller403(c)
	}

	if err := h.Lifecycle.DeleteIntention(c.UserContext(), who.ID, c.Params("id")); err != nil {
		return serviceError(c, err, "intention.delete")
	}

	return utils.MutationSuccessResponse(c, "Intention deleted")
}
