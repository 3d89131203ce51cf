package v1_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"jobconnect-backend/config"
	"jobconnect-backend/internal/delivery/http/middleware"
	v1 "jobconnect-backend/internal/delivery/http/v1"
	"jobconnect-backend/internal/repository/memory"
	"jobconnect-backend/internal/usecase"
	"jobconnect-backend/pkg/audit"
	"jobconnect-backend/pkg/auth"
	"jobconnect-backend/pkg/logger"
	"jobconnect-backend/pkg/validation"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorBody struct {
	Kind    string       `json:"kind"`
	Details []fieldError `json:"details"`
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     *errorBody      `json:"error"`
	RequestID string          `json:"request_id"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T, authThreshold int) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		GinMode:                  gin.TestMode,
		JWTExpiry:                time.Hour,
		CORSOrigins:              []string{"http://localhost:3000"},
		RateLimitWindowSeconds:   60,
		RateLimitGlobalThreshold: 1000,
		RateLimitAuthThreshold:   authThreshold,
	}
	log := logger.Discard()
	store := memory.NewStore()
	validate := validation.New()
	tokens := auth.NewTokenManager("test-secret", "jobconnect", time.Hour, nil)
	deps := usecase.Deps{Logger: log}

	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        usecase.NewAuthUsecase(store.Users(), tokens, validate, deps),
		UserUC:        usecase.NewUserUsecase(store.Users(), validate, deps),
		JobUC:         usecase.NewJobUsecase(store.Jobs(), validate, deps),
		ApplicationUC: usecase.NewApplicationUsecase(store.Applications(), store.Jobs(), nil, validate, deps),
		HealthUC:      usecase.NewHealthUsecase(nil),
		RateLimiter:   middleware.NewRateLimiter(nil, audit.Nop(), log),
		Logger:        log,
		Config:        cfg,
	})
	return &api{t: t, router: router}
}

func (a *api) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (a *api) register(name, email, role string) string {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

type jobData struct {
	Job struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"job"`
}

type applicationData struct {
	Application struct {
		ID         string  `json:"id"`
		Status     string  `json:"status"`
		ReviewedAt *string `json:"reviewed_at"`
	} `json:"application"`
}

func TestApplicationFlow(t *testing.T) {
	a := newAPI(t, 1000)
	r1 := a.register("Rita", "rita@example.com", "recruiter")
	r2 := a.register("Rob", "rob@example.com", "recruiter")
	s1 := a.register("Sam", "sam@example.com", "job_seeker")

	w, env := a.do(http.MethodPost, "/api/jobs", r1, map[string]interface{}{
		"title":       "Backend Engineer",
		"description": "Go services",
		"company":     "Acme",
		"location":    "Remote",
		"type":        "full-time",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	job := decode[jobData](t, env.Data).Job
	assert.Equal(t, "active", job.Status)

	w, env = a.do(http.MethodPost, "/api/applications", s1, map[string]string{"job": job.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	app := decode[applicationData](t, env.Data).Application
	assert.Equal(t, "pending", app.Status)
	assert.Nil(t, app.ReviewedAt)

	w, env = a.do(http.MethodPost, "/api/applications", s1, map[string]string{"job": job.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "duplicate", env.Error.Kind)
	assert.Equal(t, "You have already applied to this job", env.Message)

	w, env = a.do(http.MethodPut, "/api/applications/"+app.ID, r1, map[string]string{"status": "shortlisted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotNil(t, decode[applicationData](t, env.Data).Application.ReviewedAt)

	w, _ = a.do(http.MethodPut, "/api/applications/"+app.ID, r2, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = a.do(http.MethodDelete, "/api/applications/"+app.ID, r1, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = a.do(http.MethodDelete, "/api/applications/"+app.ID, s1, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodGet, "/api/applications/"+app.ID, s1, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJobSearchEndpoint(t *testing.T) {
	a := newAPI(t, 1000)
	r1 := a.register("Rita", "rita@example.com", "recruiter")
	for i := range 12 {
		w, _ := a.do(http.MethodPost, "/api/jobs", r1, map[string]interface{}{
			"title":       fmt.Sprintf("Role %d", i),
			"description": "Work",
			"company":     "Acme",
			"location":    "Remote",
			"type":        "contract",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("Anonymous second page", func(t *testing.T) {
		w, env := a.do(http.MethodGet, "/api/jobs?location=remote&page=2&limit=10", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		page := decode[struct {
			Count int   `json:"count"`
			Total int64 `json:"total"`
			Pages int   `json:"pages"`
		}](t, env.Data)
		assert.Equal(t, 2, page.Count)
		assert.Equal(t, int64(12), page.Total)
		assert.Equal(t, 2, page.Pages)
	})

	t.Run("Bad paging parameters are field errors", func(t *testing.T) {
		w, env := a.do(http.MethodGet, "/api/jobs?page=zero", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "page", env.Error.Details[0].Field)
	})

	t.Run("Drafts need a token", func(t *testing.T) {
		w, _ := a.do(http.MethodGet, "/api/jobs?status=draft", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthEndpoints(t *testing.T) {
	t.Run("Protected routes require a token", func(t *testing.T) {
		a := newAPI(t, 1000)
		w, env := a.do(http.MethodGet, "/api/applications", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.RequestID)
	})

	t.Run("Invalid tokens are rejected", func(t *testing.T) {
		a := newAPI(t, 1000)
		w, _ := a.do(http.MethodGet, "/api/auth/me", "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Registration sets an httpOnly cookie", func(t *testing.T) {
		a := newAPI(t, 1000)
		w, _ := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Sam", "email": "sam@example.com", "password": "secret123", "role": "job_seeker",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "auth_token", cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("Malformed bodies are bad requests", func(t *testing.T) {
		a := newAPI(t, 1000)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Login attempts are rate limited", func(t *testing.T) {
		a := newAPI(t, 2)
		body := map[string]string{"email": "nobody@example.com", "password": "whatever"}
		for range 2 {
			w, _ := a.do(http.MethodPost, "/api/auth/login", "", body)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		}
		w, _ := a.do(http.MethodPost, "/api/auth/login", "", body)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})
}

func TestHealthEndpoint(t *testing.T) {
	a := newAPI(t, 1000)
	w, env := a.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
