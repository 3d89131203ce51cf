package v1

import (
	"jobconnect-backend/internal/delivery/http/middleware"
	"jobconnect-backend/internal/delivery/http/response"
	"jobconnect-backend/internal/domain"
	"net/http"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

// NewJobHandler registers the job routes. Reads are public; the listing
// resolves an optional token so recruiters can search their non-active jobs.
func NewJobHandler(public *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	jobs := public.Group("/jobs")
	{
		jobs.GET("", optionalAuth, handler.Search)
		jobs.GET("/my-jobs", requireAuth, handler.ListMine)
		jobs.GET("/:id", handler.Get)
		jobs.POST("", requireAuth, handler.Create)
		jobs.PUT("/:id", requireAuth, handler.Update)
		jobs.DELETE("/:id", requireAuth, handler.Delete)
	}
}

// Search godoc
// @Summary      Search jobs
// @Description  Newest first. Status defaults to active; closed and draft are limited to the caller's own jobs.
// @Tags         jobs
// @Produce      json
// @Param        search    query     string  false  "Free text over title, description and company"
// @Param        type      query     string  false  "full-time, part-time, contract or internship"
// @Param        location  query     string  false  "Case-insensitive substring"
// @Param        status    query     string  false  "active, closed or draft"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Page size (default 10, max 100)"
// @Success      200       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) Search(c *gin.Context) {
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	search := domain.JobSearch{
		Text:     c.Query("search"),
		Type:     domain.JobType(c.Query("type")),
		Location: c.Query("location"),
		Status:   domain.JobStatus(c.Query("status")),
		Page:     page,
		PageSize: limit,
	}

	result, err := h.jobUC.SearchJobs(c.Request.Context(), middleware.ActorFrom(c), search)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", result)
}

// ListMine godoc
// @Summary      List my jobs
// @Description  Every job posted by the calling recruiter, any status
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs/my-jobs [get]
// @Security     BearerAuth
func (h *JobHandler) ListMine(c *gin.Context) {
	jobs, err := h.jobUC.ListMyJobs(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"jobs": jobs, "count": len(jobs)})
}

// Get godoc
// @Summary      Get job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobUC.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"job": job})
}

// Create godoc
// @Summary      Create a new job
// @Description  Create a new job posting (recruiter only)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      domain.JobInput  true  "Job JSON"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var input domain.JobInput
	if !bindJSON(c, &input) {
		return
	}

	job, err := h.jobUC.CreateJob(c.Request.Context(), middleware.ActorFrom(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created successfully", gin.H{"job": job})
}

// Update godoc
// @Summary      Update job
// @Description  Partial update by the posting recruiter
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      string           true  "Job ID"
// @Param        job  body      domain.JobPatch  true  "Fields to update"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	var patch domain.JobPatch
	if !bindJSON(c, &patch) {
		return
	}

	job, err := h.jobUC.UpdateJob(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), patch)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated successfully", gin.H{"job": job})
}

// Delete godoc
// @Summary      Delete job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.jobUC.DeleteJob(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted successfully", nil)
}
