package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-cms/internal/domain/ports"
	"github.com/rafabene/avantpro-cms/internal/handlers/dto"
	"github.com/rafabene/avantpro-cms/internal/handlers/middleware"
	"github.com/rafabene/avantpro-cms/internal/services"
)

// PermissionHandler expõe o catálogo e as permissões efetivas
type PermissionHandler struct {
	permissionService *services.PermissionService
	logger            ports.Logger
}

// NewPermissionHandler cria um novo PermissionHandler
func NewPermissionHandler(permissionService *services.PermissionService, logger ports.Logger) *PermissionHandler {
	return &PermissionHandler{
		permissionService: permissionService,
		logger:            logger,
	}
}

// GetCatalog retorna os recursos e suas ações válidas
//
//	@Summary	Permission catalog
//	@Tags		permissions
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.CatalogResponse
//	@Router		/permissions/catalog [get]
func (h *PermissionHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToCatalogResponse())
}

// ListSystemRoles retorna os papéis de sistema com os conjuntos completos
//
//	@Summary	System roles
//	@Tags		permissions
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	dto.SystemRoleResponse
//	@Router		/permissions/system-roles [get]
func (h *PermissionHandler) ListSystemRoles(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToSystemRoleResponses())
}

// GetMyPermissions resolve todas as permissões do usuário autenticado
//
//	@Summary	Effective permissions of the caller
//	@Tags		permissions
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.EffectivePermissionsResponse
//	@Failure	401	{object}	dto.ErrorResponse
//	@Router		/me/permissions [get]
func (h *PermissionHandler) GetMyPermissions(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		dto.Abort(c, dto.UnauthorizedErrorResponseI18n(c))
		return
	}

	session, err := h.permissionService.SessionFor(c.Request.Context(), principal)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	effective, _ := session.Effective()

	c.JSON(http.StatusOK, dto.EffectivePermissionsResponse{
		UserID:         middleware.GetUserID(c),
		OrganizationID: principal.OrganizationID,
		Role:           principal.Role.String(),
		Permissions:    effective,
	})
}
