package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/ports"
)

// DirectoryHandler serves the caller's identity and the tenant directory.
type DirectoryHandler struct {
	service ports.DirectoryService
}

func NewDirectoryHandler(service ports.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// Me handles GET /api/me.
//
// @Summary      The authenticated principal
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse{data=domain.Principal}
// @Failure      401  {object}  ErrorResponse
// @Router       /api/me [get]
func (h *DirectoryHandler) Me(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true, Data: p})
}

// ListClients handles GET /api/clients.
//
// @Summary      Clients visible to the caller
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Param        clientId  query     string  false  "Client filter"
// @Success      200       {object}  successResponse{data=[]domain.Client}
// @Failure      403       {object}  ErrorResponse
// @Router       /api/clients [get]
func (h *DirectoryHandler) ListClients(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	clients, err := h.service.ListClients(c.Request().Context(), p, strings.TrimSpace(c.QueryParam("clientId")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(clients, nil, p))
}

// GetClient handles GET /api/clients/:id.
//
// @Summary      One client
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  successResponse{data=domain.Client}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *DirectoryHandler) GetClient(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	client, err := h.service.GetClient(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(client, nil, p))
}

// ListUsers handles GET /api/users. Restricted to admin and ceo.
//
// @Summary      Users of the caller's tenant
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Param        clientId  query     string  false  "Client filter (ceo)"
// @Param        role      query     string  false  "Role filter"
// @Success      200       {object}  successResponse{data=[]domain.User}
// @Failure      400       {object}  ErrorResponse
// @Failure      403       {object}  ErrorResponse
// @Router       /api/users [get]
func (h *DirectoryHandler) ListUsers(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	role := domain.Role(strings.TrimSpace(c.QueryParam("role")))
	users, err := h.service.ListUsers(c.Request().Context(), p, strings.TrimSpace(c.QueryParam("clientId")), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(users, nil, p))
}
