package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/sangkips/fms-api/internal/domain/repository"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/response"
	"github.com/sangkips/fms-api/pkg/utils"
	"go.uber.org/zap"
)

// Context keys set by the auth middleware
const (
	ContextUserID = "user_id"
	ContextEmail  = "user_email"
	ContextRole   = "user_role"
	ContextActor  = "actor"
)

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware validates the access token and loads the calling user. The
// account must still exist; its current role wins over the role in the token.
func AuthMiddleware(jwtManager *utils.JWTManager, users repository.UserRepository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			log.Error("failed to load authenticated user", zap.String("user_id", claims.UserID.String()), zap.Error(err))
			response.InternalServerError(c, "Could not authenticate due to a database error.")
			c.Abort()
			return
		}
		if user == nil {
			response.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		setUser(c, service.ActorFromUser(user), user.Email)
		c.Next()
	}
}

// OptionalAuthMiddleware authenticates when a valid token is present and
// otherwise lets the request through anonymously
func OptionalAuthMiddleware(jwtManager *utils.JWTManager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		if user, err := users.GetByID(c.Request.Context(), claims.UserID); err == nil && user != nil {
			setUser(c, service.ActorFromUser(user), user.Email)
		}
		c.Next()
	}
}

func setUser(c *gin.Context, actor *service.Actor, email string) {
	c.Set(ContextUserID, actor.ID)
	c.Set(ContextEmail, email)
	c.Set(ContextRole, actor.Role)
	c.Set(ContextActor, actor)
}

// GetActor returns the authenticated caller, or nil
func GetActor(c *gin.Context) *service.Actor {
	v, exists := c.Get(ContextActor)
	if !exists {
		return nil
	}
	actor, _ := v.(*service.Actor)
	return actor
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...enum.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor == nil {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		response.Error(c, service.RequireRole(actor, roles[0]))
		c.Abort()
	}
}
