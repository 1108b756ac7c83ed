package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/classboard/auth/authctx"
	"github.com/skillsenselab/classboard/auth/jwt"
	apperrors "github.com/skillsenselab/classboard/errors"
)

// Gin context keys populated by Auth.
const (
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"
)

// Auth returns a Gin middleware that requires a valid bearer token. A request
// without an Authorization header is rejected with 401; a request whose token
// fails verification for any reason (malformed, expired, bad signature) is
// rejected with 400 and the same generic message. Verified claims are stored
// in the Gin context and in the request context for downstream handlers.
func Auth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			appErr := apperrors.NoToken()
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.Verify(token)
		if err != nil {
			appErr := apperrors.InvalidToken(err)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)
		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), claims))
		c.Next()
	}
}
