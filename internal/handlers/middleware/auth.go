package middleware

import (
	"context"
	errs "errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	"github.com/rafabene/avantpro-cms/internal/domain/errors"
	"github.com/rafabene/avantpro-cms/internal/domain/ports"
	"github.com/rafabene/avantpro-cms/internal/handlers/dto"
)

const (
	// UserIDContextKey guarda o ID do usuário autenticado
	UserIDContextKey = "user_id"
	// PrincipalContextKey guarda o entities.Principal do usuário autenticado
	PrincipalContextKey = "principal"
)

// PrincipalLoader carrega o principal atual de um usuário
type PrincipalLoader interface {
	PrincipalFor(ctx context.Context, userID string) (entities.Principal, error)
}

// AuthMiddleware valida o bearer token e carrega o principal do usuário
type AuthMiddleware struct {
	secret     []byte
	issuer     string
	principals PrincipalLoader
	logger     ports.Logger
}

// NewAuthMiddleware cria um novo middleware de autenticação
func NewAuthMiddleware(secret, issuer string, principals PrincipalLoader, logger ports.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		secret:     []byte(secret),
		issuer:     issuer,
		principals: principals,
		logger:     logger,
	}
}

// RequireAuth exige um JWT HS256 válido cujo "sub" é o ID do usuário.
// O papel é sempre lido do store, então trocas de papel valem na próxima requisição.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			dto.Abort(c, dto.UnauthorizedErrorResponseI18n(c))
			return
		}

		userID, err := m.parseToken(tokenString)
		if err != nil {
			m.logger.Debug("rejected bearer token", "error", err)
			dto.Abort(c, dto.UnauthorizedErrorResponseI18n(c))
			return
		}

		principal, err := m.principals.PrincipalFor(c.Request.Context(), userID)
		if err != nil {
			if errs.Is(err, errors.ErrUserNotFound) {
				dto.Abort(c, dto.UnauthorizedErrorResponseI18n(c))
				return
			}
			m.logger.Error("failed to load principal", "user_id", userID, "error", err)
			dto.Abort(c, dto.InternalErrorResponseI18n(c))
			return
		}

		c.Set(UserIDContextKey, userID)
		c.Set(PrincipalContextKey, principal)
		c.Next()
	}
}

func (m *AuthMiddleware) parseToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
	)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errs.New("token without subject")
	}
	return claims.Subject, nil
}

// IssueToken assina um token HS256 para o usuário
func IssueToken(secret, issuer, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// GetPrincipal retorna o principal autenticado da requisição
func GetPrincipal(c *gin.Context) (entities.Principal, bool) {
	value, exists := c.Get(PrincipalContextKey)
	if !exists {
		return entities.Principal{}, false
	}
	principal, ok := value.(entities.Principal)
	return principal, ok
}

// GetUserID retorna o ID do usuário autenticado
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDContextKey)
}
