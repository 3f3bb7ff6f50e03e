package dto

import (
	errs "errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
)

var registerOnce sync.Once

// RegisterValidators registra as validações customizadas no validator do Gin
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})

		_ = v.RegisterValidation("permission_key", func(fl validator.FieldLevel) bool {
			return entities.IsValidPermissionKey(fl.Field().String())
		})
	})
}

// BindingErrors converte erros do validator em erros de campo traduzidos.
// Retorna nil quando err não é um erro de validação (ex.: JSON malformado).
func BindingErrors(c *gin.Context, err error) []ValidationError {
	var validationErrs validator.ValidationErrors
	if !errs.As(err, &validationErrs) {
		return nil
	}

	out := make([]ValidationError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, ValidationError{
			Field:   fieldPath(fe),
			Message: T(c, "validation."+messageTag(fe.Tag()), map[string]interface{}{"Param": fe.Param()}),
			Tag:     fe.Tag(),
		})
	}
	return out
}

// fieldPath remove o nome da struct do namespace ("CreateCustomRoleRequest.permissions[x]")
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx != -1 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func messageTag(tag string) string {
	switch tag {
	case "required", "max", "permission_key":
		return tag
	default:
		return "invalid"
	}
}
