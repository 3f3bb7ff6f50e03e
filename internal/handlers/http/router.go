package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	"github.com/rafabene/avantpro-cms/internal/handlers/dto"
	"github.com/rafabene/avantpro-cms/internal/handlers/middleware"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/i18n"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/metrics"
)

// RouterOptions reúne as dependências das rotas
type RouterOptions struct {
	Env            string
	BaseURL        string
	AllowedOrigins string

	I18n       *i18n.Service
	Auth       *middleware.AuthMiddleware
	Authorizer *middleware.Authorizer
	Metrics    *metrics.Metrics

	Permissions *PermissionHandler
	CustomRoles *CustomRoleHandler
	Users       *UserHandler
}

// NewRouter monta o engine com middlewares globais e rotas da API
func NewRouter(opts RouterOptions) *gin.Engine {
	dto.RegisterValidators()

	router := gin.Default()

	// Middleware global para adicionar base URL ao contexto
	router.Use(func(c *gin.Context) {
		c.Set("base_url", opts.BaseURL)
		c.Next()
	})
	router.Use(middleware.NewI18nMiddleware(opts.I18n).DetectLanguage())
	router.Use(middleware.CORS(opts.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    opts.Env,
		})
	})
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	require := opts.Authorizer.RequirePermission

	v1 := router.Group("/api/v1")
	v1.Use(opts.Auth.RequireAuth())
	{
		permissions := v1.Group("/permissions")
		{
			permissions.GET("/catalog", opts.Permissions.GetCatalog)
			permissions.GET("/system-roles", opts.Permissions.ListSystemRoles)
		}
		v1.GET("/me/permissions", opts.Permissions.GetMyPermissions)

		roles := v1.Group("/custom-roles")
		{
			roles.GET("", require(entities.ResourceUser, entities.ActionRead), opts.CustomRoles.ListCustomRoles)
			roles.GET("/:id", require(entities.ResourceUser, entities.ActionRead), opts.CustomRoles.GetCustomRole)
			roles.POST("", require(entities.ResourceUser, entities.ActionManage), opts.CustomRoles.CreateCustomRole)
			roles.PATCH("/:id", require(entities.ResourceUser, entities.ActionManage), opts.CustomRoles.UpdateCustomRole)
			roles.DELETE("/:id", require(entities.ResourceUser, entities.ActionManage), opts.CustomRoles.DeleteCustomRole)
		}

		v1.POST("/role-assignments", require(entities.ResourceUser, entities.ActionManage), opts.Users.AssignRole)

		users := v1.Group("/users")
		{
			users.GET("", require(entities.ResourceUser, entities.ActionRead), opts.Users.ListUsers)
			users.GET("/:id", require(entities.ResourceUser, entities.ActionRead), opts.Users.GetUser)
			users.DELETE("/:id", require(entities.ResourceUser, entities.ActionDelete), opts.Users.DeleteUser)
		}
	}

	return router
}
