package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-cms/internal/domain/ports"
	"github.com/rafabene/avantpro-cms/internal/handlers/dto"
	"github.com/rafabene/avantpro-cms/internal/handlers/middleware"
	"github.com/rafabene/avantpro-cms/internal/services"
)

// CustomRoleHandler lida com requisições HTTP de papéis customizados
type CustomRoleHandler struct {
	roleService *services.CustomRoleService
	logger      ports.Logger
}

// NewCustomRoleHandler cria um novo CustomRoleHandler
func NewCustomRoleHandler(roleService *services.CustomRoleService, logger ports.Logger) *CustomRoleHandler {
	return &CustomRoleHandler{
		roleService: roleService,
		logger:      logger,
	}
}

// ListCustomRoles lista os papéis da organização do usuário
//
//	@Summary	List custom roles
//	@Tags		custom-roles
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.CustomRoleResponse
//	@Failure	403	{object}	dto.ErrorResponse
//	@Router		/custom-roles [get]
func (h *CustomRoleHandler) ListCustomRoles(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	roles, err := h.roleService.List(c.Request.Context(), principal.OrganizationID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomRoleResponses(roles))
}

// GetCustomRole busca um papel por ID
//
//	@Summary	Get custom role
//	@Tags		custom-roles
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Custom role ID"
//	@Success	200	{object}	dto.CustomRoleResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/custom-roles/{id} [get]
func (h *CustomRoleHandler) GetCustomRole(c *gin.Context) {
	id, ok := parseRoleID(c)
	if !ok {
		return
	}
	principal, _ := middleware.GetPrincipal(c)

	role, err := h.roleService.Get(c.Request.Context(), principal.OrganizationID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomRoleResponse(role))
}

// CreateCustomRole cria um papel customizado
//
//	@Summary	Create custom role
//	@Tags		custom-roles
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		dto.CreateCustomRoleRequest	true	"Custom role"
//	@Success	201		{object}	dto.CustomRoleResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Router		/custom-roles [post]
func (h *CustomRoleHandler) CreateCustomRole(c *gin.Context) {
	var req dto.CreateCustomRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	principal, _ := middleware.GetPrincipal(c)

	role, err := h.roleService.Create(c.Request.Context(), services.CreateCustomRoleInput{
		Actor:          principal,
		OrganizationID: principal.OrganizationID,
		Name:           req.Name,
		Description:    req.Description,
		BasedOnRole:    req.BasedOnRole,
		Permissions:    req.Permissions,
		IsDefault:      req.IsDefault,
		CreatedByID:    middleware.GetUserID(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCustomRoleResponse(role))
}

// UpdateCustomRole altera um papel customizado
//
//	@Summary	Update custom role
//	@Tags		custom-roles
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int							true	"Custom role ID"
//	@Param		request	body		dto.UpdateCustomRoleRequest	true	"Changed fields"
//	@Success	200		{object}	dto.CustomRoleResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	404		{object}	dto.ErrorResponse
//	@Router		/custom-roles/{id} [patch]
func (h *CustomRoleHandler) UpdateCustomRole(c *gin.Context) {
	id, ok := parseRoleID(c)
	if !ok {
		return
	}

	var req dto.UpdateCustomRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	principal, _ := middleware.GetPrincipal(c)

	role, err := h.roleService.Update(c.Request.Context(), principal.OrganizationID, id, services.UpdateCustomRoleInput{
		Actor:       principal,
		Name:        req.Name,
		Description: req.Description,
		BasedOnRole: req.BasedOnRole,
		Permissions: req.Permissions,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomRoleResponse(role))
}

// DeleteCustomRole remove um papel sem usuários atribuídos
//
//	@Summary	Delete custom role
//	@Tags		custom-roles
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path	int	true	"Custom role ID"
//	@Success	200
//	@Failure	404	{object}	dto.ErrorResponse
//	@Failure	409	{object}	dto.ErrorResponse
//	@Router		/custom-roles/{id} [delete]
func (h *CustomRoleHandler) DeleteCustomRole(c *gin.Context) {
	id, ok := parseRoleID(c)
	if !ok {
		return
	}
	principal, _ := middleware.GetPrincipal(c)

	if err := h.roleService.Delete(c.Request.Context(), principal.OrganizationID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}

func parseRoleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		dto.Abort(c, dto.NotFoundErrorResponseI18n(c, "resource.custom_role"))
		return 0, false
	}
	return id, true
}
