package v1

import (
	"jobconnect-backend/internal/delivery/http/middleware"
	"jobconnect-backend/internal/delivery/http/response"
	"jobconnect-backend/internal/domain"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUC domain.UserUsecase
}

func NewUserHandler(protected *gin.RouterGroup, userUC domain.UserUsecase) {
	handler := &UserHandler{userUC: userUC}

	users := protected.Group("/users")
	{
		users.GET("", handler.List)
		users.GET("/:id", handler.Get)
		users.PUT("/:id", handler.Update)
		users.DELETE("/:id", handler.Delete)
	}
}

// List godoc
// @Summary      List users
// @Description  Recruiters only. Filter by role and by a name or email substring.
// @Tags         users
// @Produce      json
// @Param        role    query     string  false  "job_seeker or recruiter"
// @Param        search  query     string  false  "Name or email substring"
// @Success      200     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Router       /users [get]
// @Security     BearerAuth
func (h *UserHandler) List(c *gin.Context) {
	filter := domain.UserFilter{
		Role:   domain.Role(c.Query("role")),
		Search: c.Query("search"),
	}
	users, err := h.userUC.List(c.Request.Context(), middleware.ActorFrom(c), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"users": users, "count": len(users)})
}

// Get godoc
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [get]
// @Security     BearerAuth
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userUC.Get(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"user": user})
}

// Update godoc
// @Summary      Update user
// @Description  Update name and profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "User ID"
// @Param        user  body      domain.UserPatch  true  "Fields to update"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /users/{id} [put]
// @Security     BearerAuth
func (h *UserHandler) Update(c *gin.Context) {
	var patch domain.UserPatch
	if !bindJSON(c, &patch) {
		return
	}
	user, err := h.userUC.Update(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), patch)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User updated successfully", gin.H{"user": user})
}

// Delete godoc
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [delete]
// @Security     BearerAuth
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userUC.Delete(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted successfully", nil)
}
