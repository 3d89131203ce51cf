package v1

import (
	"jobconnect-backend/internal/delivery/http/middleware"
	"jobconnect-backend/internal/delivery/http/response"
	"jobconnect-backend/internal/domain"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC       domain.AuthUsecase
	cookieMaxAge time.Duration
	secureCookie bool
}

func NewAuthHandler(public *gin.RouterGroup, requireAuth, authLimit gin.HandlerFunc, authUC domain.AuthUsecase, cookieMaxAge time.Duration, secureCookie bool) {
	handler := &AuthHandler{
		authUC:       authUC,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
	}

	authGroup := public.Group("/auth")
	{
		authGroup.POST("/register", authLimit, handler.Register)
		authGroup.POST("/login", authLimit, handler.Login)
		authGroup.POST("/logout", handler.Logout)
		authGroup.GET("/me", requireAuth, handler.Me)
	}
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("auth_token", token, maxAge, "/", "", h.secureCookie, true)
}

// Register godoc
// @Summary      User Registration
// @Description  Register a job seeker or recruiter and receive a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      domain.RegisterInput  true  "Registration Details"
// @Success      201       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Failure      429       {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input domain.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.authUC.Register(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookie(c, result.Token, int(h.cookieMaxAge.Seconds()))
	response.Success(c, http.StatusCreated, "User registered successfully", result)
}

// Login godoc
// @Summary      User Login
// @Description  Exchange email and password for a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      domain.LoginInput  true  "Credentials"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input domain.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.authUC.Login(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookie(c, result.Token, int(h.cookieMaxAge.Seconds()))
	response.Success(c, http.StatusOK, "Login successful", result)
}

// Logout godoc
// @Summary      Logout
// @Description  Clear the auth cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setAuthCookie(c, "", -1)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), actor.ID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"user": user})
}
