package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	"github.com/rafabene/avantpro-cms/internal/domain/errors"
	"github.com/rafabene/avantpro-cms/internal/domain/ports"
	"github.com/rafabene/avantpro-cms/internal/domain/repositories"
	"github.com/rafabene/avantpro-cms/internal/handlers/dto"
	"github.com/rafabene/avantpro-cms/internal/handlers/middleware"
	"github.com/rafabene/avantpro-cms/internal/services"
)

// UserHandler lida com requisições HTTP relacionadas a usuários
type UserHandler struct {
	userService *services.UserService
	logger      ports.Logger
}

// NewUserHandler cria um novo UserHandler
func NewUserHandler(userService *services.UserService, logger ports.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// GetUser busca um usuário da organização por ID
//
//	@Summary	Get user
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	dto.UserResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	user, err := h.userService.GetUser(c.Request.Context(), principal.OrganizationID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// ListUsers lista usuários da organização, opcionalmente filtrando por papel
//
//	@Summary	List users
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		role		query		string	false	"Role reference (editor, custom:12)"
//	@Param		page		query		int		false	"Page"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{array}		dto.UserResponse
//	@Failure	400			{object}	dto.ErrorResponse
//	@Router		/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var query dto.ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return
	}
	principal, _ := middleware.GetPrincipal(c)

	filters := repositories.UserFilters{
		OrganizationID: principal.OrganizationID,
		Page:           query.Page,
		PageSize:       query.PageSize,
	}
	if query.Role != "" {
		ref, err := entities.ParseRoleRef(query.Role)
		if err != nil {
			respondError(c, h.logger, errors.NewValidationError("role", err))
			return
		}
		filters.Role = &ref
	}

	users, err := h.userService.ListUsers(c.Request.Context(), filters)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponses(users))
}

// AssignRole troca o papel de um usuário da organização
//
//	@Summary	Assign role
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		dto.AssignRoleRequest	true	"Assignment"
//	@Success	200		{object}	dto.UserResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	403		{object}	dto.ErrorResponse
//	@Failure	404		{object}	dto.ErrorResponse
//	@Router		/role-assignments [post]
func (h *UserHandler) AssignRole(c *gin.Context) {
	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	principal, _ := middleware.GetPrincipal(c)

	user, err := h.userService.AssignRole(c.Request.Context(), services.AssignRoleInput{
		Actor:  principal,
		UserID: req.UserID,
		Role:   req.Role,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// DeleteUser remove um usuário da organização
//
//	@Summary	Delete user
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	map[string]interface{}
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id := c.Param("id")

	if err := h.userService.DeleteUser(c.Request.Context(), principal.OrganizationID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}
