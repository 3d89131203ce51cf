package v1

import (
	"jobconnect-backend/internal/delivery/http/middleware"
	"jobconnect-backend/internal/delivery/http/response"
	"jobconnect-backend/internal/domain"
	"net/http"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ApplicationHandler struct {
	appUC domain.ApplicationUsecase
}

func NewApplicationHandler(protected *gin.RouterGroup, appUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{appUC: appUC}

	apps := protected.Group("/applications")
	{
		apps.GET("", handler.List)
		apps.GET("/export", handler.Export)
		apps.GET("/:id", handler.Get)
		apps.POST("", handler.Apply)
		apps.POST("/resume-upload", handler.ResumeUpload)
		apps.PUT("/:id", handler.UpdateStatus)
		apps.DELETE("/:id", handler.Withdraw)
	}
}

func applicationQuery(c *gin.Context) domain.ApplicationQuery {
	return domain.ApplicationQuery{
		Status: domain.ApplicationStatus(c.Query("status")),
		JobID:  c.Query("job"),
	}
}

// List godoc
// @Summary      List applications
// @Description  Job seekers see their own applications; recruiters see applications to their jobs
// @Tags         applications
// @Produce      json
// @Param        status  query     string  false  "Application status"
// @Param        job     query     string  false  "Job ID"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.appUC.List(c.Request.Context(), middleware.ActorFrom(c), applicationQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"applications": apps, "count": len(apps)})
}

// Export godoc
// @Summary      Export applications
// @Description  Recruiter's scoped applications as an xlsx workbook
// @Tags         applications
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status  query     string  false  "Application status"
// @Param        job     query     string  false  "Job ID"
// @Success      200     {file}    file
// @Failure      403     {object}  response.Response
// @Router       /applications/export [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Export(c *gin.Context) {
	data, err := h.appUC.Export(c.Request.Context(), middleware.ActorFrom(c), applicationQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="applications.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Get godoc
// @Summary      Get application
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.appUC.Get(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"application": app})
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Job seekers only; one application per job
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        application  body      domain.ApplyInput  true  "Application"
// @Success      201          {object}  response.Response
// @Failure      400          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var input domain.ApplyInput
	if !bindJSON(c, &input) {
		return
	}

	app, err := h.appUC.Apply(c.Request.Context(), middleware.ActorFrom(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted successfully", gin.H{"application": app})
}

// ResumeUpload godoc
// @Summary      Prepare resume upload
// @Description  Returns a presigned upload URL and the resume reference to submit with an application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        upload  body      domain.ResumeUploadInput  true  "File"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      503     {object}  response.Response
// @Router       /applications/resume-upload [post]
// @Security     BearerAuth
func (h *ApplicationHandler) ResumeUpload(c *gin.Context) {
	var input domain.ResumeUploadInput
	if !bindJSON(c, &input) {
		return
	}

	upload, err := h.appUC.PrepareResumeUpload(c.Request.Context(), middleware.ActorFrom(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", upload)
}

// UpdateStatus godoc
// @Summary      Update application status
// @Description  Recruiter who posted the job only
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id      path      string               true  "Application ID"
// @Param        update  body      domain.StatusUpdate  true  "Status and notes"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /applications/{id} [put]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var update domain.StatusUpdate
	if !bindJSON(c, &update) {
		return
	}

	app, err := h.appUC.SetStatus(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), update)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application updated successfully", gin.H{"application": app})
}

// Withdraw godoc
// @Summary      Withdraw application
// @Description  Applicant only
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	if err := h.appUC.Withdraw(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application deleted successfully", nil)
}
