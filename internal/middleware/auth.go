package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/petclinic-api/internal/model"
	"github.com/jwalitptl/petclinic-api/pkg/auth"
	apperrors "github.com/jwalitptl/petclinic-api/pkg/errors"
	"github.com/jwalitptl/petclinic-api/pkg/httputil"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "user_email"
	ContextRealm  = "user_realm"
)

// TokenRevocationChecker reports whether a token has been logged out.
type TokenRevocationChecker interface {
	IsRevoked(token string) bool
}

type AuthMiddleware struct {
	jwt        auth.JWTService
	revocation TokenRevocationChecker
}

func NewAuthMiddleware(jwtSvc auth.JWTService, revocation TokenRevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwt:        jwtSvc,
		revocation: revocation,
	}
}

// RequireRealm authenticates the bearer token and rejects callers whose
// realm claim does not match. An owner token cannot reach staff endpoints
// and a staff token cannot act as an owner.
func (m *AuthMiddleware) RequireRealm(realm model.Realm) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "missing or malformed authorization header")
			return
		}

		if m.revocation != nil && m.revocation.IsRevoked(token) {
			abortUnauthorized(c, "token has been revoked")
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}
		if claims.Realm != realm {
			abortUnauthorized(c, "token realm not allowed for this endpoint")
			return
		}

		c.Set(ContextUserID, claims.UserID.String())
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRealm, string(claims.Realm))
		c.Next()
	}
}

// UserID extracts the authenticated caller's ID set by RequireRealm.
func UserID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.GetString(ContextUserID))
	if err != nil {
		return uuid.Nil, apperrors.NewAuthRequired(err)
	}
	return id, nil
}

// BearerToken returns the raw token from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	return bearerToken(c)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, message string) {
	httputil.RespondWithError(c, apperrors.NewAuthRequired(nil).WithMessage(message))
	c.Abort()
}
