package middleware

import (
	"errors"
	"jobconnect-backend/internal/delivery/http/response"
	"jobconnect-backend/internal/domain"
	"jobconnect-backend/pkg/apperror"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorBody is the error field of the envelope.
type errorBody struct {
	Kind    apperror.Kind         `json:"kind"`
	Details []apperror.FieldError `json:"details,omitempty"`
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Internal failures are logged with their stack and answered generically.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.Internal(err)
		}

		if appErr.Kind == apperror.KindInternal || appErr.Kind == apperror.KindUnavailable {
			attrs := []any{
				"method", c.Request.Method,
				"path", c.FullPath(),
				"request_id", c.GetString(string(domain.KeyRequestID)),
				"error", appErr.Err,
			}
			if stack := appErr.Stack(); stack != "" {
				attrs = append(attrs, "stack", stack)
			}
			logger.ErrorContext(c.Request.Context(), "request failed", attrs...)
		}

		if appErr.Kind == apperror.KindInternal {
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", errorBody{Kind: appErr.Kind})
			return
		}
		response.Error(c, appErr.Code, appErr.Message, errorBody{Kind: appErr.Kind, Details: appErr.Details})
	}
}

// Recovery turns panics into the internal error envelope.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "panic recovered",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString(string(domain.KeyRequestID)),
			"panic", recovered,
		)
		response.Abort(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
	})
}
