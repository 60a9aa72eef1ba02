package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/filter"
	"github.com/closerhq/agency-dashboard/internal/core/ports"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 128
)

// CallHandler handles HTTP requests for call records.
type CallHandler struct {
	service ports.CallService
}

func NewCallHandler(service ports.CallService) *CallHandler {
	return &CallHandler{service: service}
}

// List handles GET /api/calls.
//
// @Summary      List calls in the caller's scope
// @Tags         calls
// @Produce      json
// @Security     BearerAuth
// @Param        clientId       query     string  false  "Client filter"
// @Param        userId         query     string  false  "User filter"
// @Param        dateFrom       query     string  false  "Window start"
// @Param        dateTo         query     string  false  "Window end"
// @Param        trafficSource  query     string  false  "organic, meta or all"
// @Param        stage          query     string  false  "Stage filter"
// @Param        limit          query     int     false  "Page size (1-100, default 20)"
// @Param        offset         query     int     false  "Offset (default 0)"
// @Success      200            {object}  successResponse{data=callListResponse}
// @Failure      400            {object}  ErrorResponse
// @Failure      403            {object}  ErrorResponse
// @Router       /api/calls [get]
func (h *CallHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	f, err := filter.NormalizeCallList(c.QueryParams())
	if err != nil {
		return err
	}

	res, err := h.service.ListCalls(c.Request().Context(), p, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(toCallListResponse(res), toCallListEcho(res.Filter), p))
}

// Create handles POST /api/calls.
//
// @Summary      Log a new call
// @Tags         calls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Replays the original call when repeated"
// @Param        body             body      createCallRequest  true   "Call details"
// @Success      201              {object}  successResponse{data=callResponse}
// @Success      200              {object}  successResponse{data=callResponse}
// @Failure      400              {object}  ErrorResponse
// @Failure      403              {object}  ErrorResponse
// @Router       /api/calls [post]
func (h *CallHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createCallRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.ErrValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	key := strings.TrimSpace(c.Request().Header.Get(headerIdempotencyKey))
	if len(key) > maxIdempotencyKeyLen {
		return domain.NewError(domain.ErrValidation, "Idempotency-Key is too long")
	}

	result, err := h.service.CreateCall(c.Request().Context(), toCreateCallInput(p, req, key))
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
		c.Response().Header().Set(headerReplayed, "true")
	}
	return c.JSON(status, success(toCallResponse(result.Call), nil, p))
}

// Get handles GET /api/calls/:id.
//
// @Summary      Get a call
// @Tags         calls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Call id"
// @Success      200  {object}  successResponse{data=callResponse}
// @Failure      404  {object}  ErrorResponse
// @Router       /api/calls/{id} [get]
func (h *CallHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	call, err := h.service.GetCall(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(toCallResponse(call), nil, p))
}

// Update handles PUT /api/calls/:id.
//
// @Summary      Update call details
// @Tags         calls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Call id"
// @Param        body  body      updateCallRequest  true  "Fields to change"
// @Success      200   {object}  successResponse{data=callResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/calls/{id} [put]
func (h *CallHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req updateCallRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.ErrValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	call, err := h.service.UpdateCall(c.Request().Context(), toUpdateCallInput(p, c.Param("id"), req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(toCallResponse(call), nil, p))
}

// MoveStage handles PATCH /api/calls/:id/stage.
//
// @Summary      Move a call to another pipeline stage
// @Tags         calls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Call id"
// @Param        body  body      moveStageRequest  true  "Target stage"
// @Success      200   {object}  successResponse{data=callResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /api/calls/{id}/stage [patch]
func (h *CallHandler) MoveStage(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req moveStageRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.ErrValidation, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	call, err := h.service.MoveStage(c.Request().Context(), p, c.Param("id"), domain.Stage(req.Stage))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(toCallResponse(call), nil, p))
}

// Delete handles DELETE /api/calls/:id.
//
// @Summary      Delete a call
// @Tags         calls
// @Security     BearerAuth
// @Param        id   path  string  true  "Call id"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /api/calls/{id} [delete]
func (h *CallHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteCall(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// History handles GET /api/calls/:id/history.
//
// @Summary      Stage audit trail of a call
// @Tags         calls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Call id"
// @Success      200  {object}  successResponse{data=[]stageEventResponse}
// @Failure      404  {object}  ErrorResponse
// @Router       /api/calls/{id}/history [get]
func (h *CallHandler) History(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	events, err := h.service.History(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(toStageEventResponses(events), nil, p))
}
