package http

import (
	errs "errors"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-cms/internal/domain/errors"
	"github.com/rafabene/avantpro-cms/internal/domain/ports"
	"github.com/rafabene/avantpro-cms/internal/handlers/dto"
)

// validationReasons são os erros cujas mensagens viram o detalhe do campo
var validationReasons = []error{
	errors.ErrRoleNameRequired,
	errors.ErrInvalidSystemRole,
	errors.ErrSuperadminBase,
	errors.ErrInvalidPermissionKey,
	errors.ErrInvalidRoleReference,
}

// respondError converte erros de domínio em problemas RFC 7807
func respondError(c *gin.Context, logger ports.Logger, err error) {
	var domainErr *errors.DomainError

	switch {
	case errs.As(err, &domainErr) && domainErr.Type == errors.ProblemTypeValidation:
		dto.Abort(c, dto.ValidationErrorResponseI18n(c, []dto.ValidationError{{
			Field:   domainErr.Field,
			Message: dto.T(c, validationReason(domainErr.Err)),
		}}))
	case errs.Is(err, errors.ErrCustomRoleNotFound):
		dto.Abort(c, dto.NotFoundErrorResponseI18n(c, "resource.custom_role"))
	case errs.Is(err, errors.ErrUserNotFound):
		dto.Abort(c, dto.NotFoundErrorResponseI18n(c, "resource.user"))
	case errs.Is(err, errors.ErrCustomRoleInUse):
		dto.Abort(c, dto.ConflictErrorResponseI18n(c, errors.ErrCustomRoleInUse.Error()))
	case errs.Is(err, errors.ErrForbidden):
		dto.Abort(c, dto.ForbiddenErrorResponseI18n(c))
	case errs.Is(err, errors.ErrUnauthorized):
		dto.Abort(c, dto.UnauthorizedErrorResponseI18n(c))
	default:
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		dto.Abort(c, dto.InternalErrorResponseI18n(c))
	}
}

// respondBindingError distingue corpo ilegível de campos inválidos
func respondBindingError(c *gin.Context, err error) {
	if fieldErrors := dto.BindingErrors(c, err); fieldErrors != nil {
		dto.Abort(c, dto.ValidationErrorResponseI18n(c, fieldErrors))
		return
	}
	dto.Abort(c, dto.BadRequestErrorResponseI18n(c))
}

func validationReason(err error) string {
	for _, reason := range validationReasons {
		if errs.Is(err, reason) {
			return reason.Error()
		}
	}
	return errors.ErrValidation.Error()
}
