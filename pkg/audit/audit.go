// Package audit records security-relevant events (logins, denials, rate
// limits) on a dedicated zap logger, separate from the application log.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginSuccess       EventType = "login_success"
	EventRegistered         EventType = "user_registered"
	EventAccessDenied       EventType = "access_denied"
	EventInvalidToken       EventType = "invalid_token"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventDuplicateApply     EventType = "duplicate_application"
)

// Event represents a security-related event to be logged
type Event struct {
	Timestamp    time.Time
	Event        EventType
	SubjectType  string // "email", "ip", "user_id"
	SubjectValue string
	IP           string
	RequestID    string
	Details      map[string]interface{}
}

type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// New builds an audit logger writing JSON to stdout.
func New(serviceName, environment string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "event"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller())
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return NewWithZap(logger, serviceName, environment)
}

func NewWithZap(logger *zap.Logger, serviceName, environment string) *Logger {
	return &Logger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// Nop returns an audit logger that discards events.
func Nop() *Logger {
	return NewWithZap(zap.NewNop(), "", "")
}

func (l *Logger) Log(ctx context.Context, event Event) {
	if l == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	level := zapcore.WarnLevel
	switch event.Event {
	case EventLoginSuccess, EventRegistered:
		level = zapcore.InfoLevel
	case EventAccessDenied, EventInvalidToken:
		level = zapcore.ErrorLevel
	}

	fields := []zap.Field{
		zap.String("service", l.serviceName),
		zap.String("env", l.environment),
		zap.Time("occurred_at", event.Timestamp),
	}
	if event.SubjectType != "" {
		fields = append(fields,
			zap.String("subject_type", event.SubjectType),
			zap.String("subject_value", maskValue(event.SubjectType, event.SubjectValue)),
		)
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	l.zapLogger.Log(level, string(event.Event), fields...)
}

func (l *Logger) LoginFailed(ctx context.Context, email, reason string) {
	l.Log(ctx, Event{
		Event:        EventLoginFailed,
		SubjectType:  "email",
		SubjectValue: email,
		Details:      map[string]interface{}{"reason": reason},
	})
}

func (l *Logger) LoginSucceeded(ctx context.Context, userID string) {
	l.Log(ctx, Event{Event: EventLoginSuccess, SubjectType: "user_id", SubjectValue: userID})
}

func (l *Logger) Registered(ctx context.Context, userID, role string) {
	l.Log(ctx, Event{
		Event:        EventRegistered,
		SubjectType:  "user_id",
		SubjectValue: userID,
		Details:      map[string]interface{}{"role": role},
	})
}

func (l *Logger) AccessDenied(ctx context.Context, userID, action, resourceID, reason string) {
	l.Log(ctx, Event{
		Event:        EventAccessDenied,
		SubjectType:  "user_id",
		SubjectValue: userID,
		Details: map[string]interface{}{
			"action":      action,
			"resource_id": resourceID,
			"reason":      reason,
		},
	})
}

func (l *Logger) RateLimitTriggered(ctx context.Context, ip, requestID, endpoint string) {
	l.Log(ctx, Event{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	switch {
	case at < 0:
		return "***"
	case at <= 1:
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue creates a short SHA256 digest of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func maskValue(subjectType, value string) string {
	switch subjectType {
	case "email":
		return MaskEmail(value)
	case "ip", "user_id":
		return value
	default:
		return HashValue(value)
	}
}
