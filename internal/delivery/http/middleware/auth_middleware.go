package middleware

import (
	"jobconnect-backend/internal/delivery/http/response"
	"jobconnect-backend/internal/domain"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const authCookie = "auth_token"

// bearerToken reads the token from the Authorization header, then from the
// auth_token cookie.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(authCookie); err == nil {
		return cookie
	}
	return ""
}

func setActor(c *gin.Context, actor domain.Actor) {
	c.Set(string(domain.KeyUserID), actor.ID)
	c.Set(string(domain.KeyUserRole), actor.Role)
}

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required")
			return
		}

		actor, err := authUC.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		setActor(c, actor)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the actor when a token is present and
// lets anonymous requests through. An invalid token is still rejected.
func OptionalAuthMiddleware(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		actor, err := authUC.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		setActor(c, actor)
		c.Next()
	}
}

// ActorFrom returns the actor set by the auth middleware, or the zero actor
// for anonymous requests.
func ActorFrom(c *gin.Context) domain.Actor {
	id := c.GetString(string(domain.KeyUserID))
	role, _ := c.Get(string(domain.KeyUserRole))
	r, _ := role.(domain.Role)
	return domain.Actor{ID: id, Role: r}
}
