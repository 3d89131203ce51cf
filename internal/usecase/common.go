package usecase

import (
	"context"
	"errors"
	"jobconnect-backend/internal/domain"
	"jobconnect-backend/internal/policy"
	"jobconnect-backend/pkg/apperror"
	"jobconnect-backend/pkg/audit"
	"jobconnect-backend/pkg/events"
	"log/slog"
	"time"
)

// Deps are the collaborators shared by every usecase.
type Deps struct {
	Policy *policy.Policy
	Audit  *audit.Logger
	Events events.Publisher
	Logger *slog.Logger
	Clock  func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Policy == nil {
		d.Policy = policy.Default()
	}
	if d.Audit == nil {
		d.Audit = audit.Nop()
	}
	if d.Events == nil {
		d.Events = events.Nop()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	return d
}

func (d Deps) now() time.Time {
	return d.Clock().UTC()
}

// authorize runs the policy and records denials in the audit log.
func (d Deps) authorize(ctx context.Context, actor domain.Actor, action policy.Action, res policy.Resource, resourceID, message string) error {
	decision := d.Policy.Decide(actor, action, res)
	if decision.Allowed {
		return nil
	}
	d.Audit.AccessDenied(ctx, actor.ID, string(action), resourceID, string(decision.Reason))
	return decision.Err(message)
}

// publish emits a domain event. Delivery failures are logged, never returned.
func (d Deps) publish(ctx context.Context, subject, actorID, entityID string, attrs map[string]string) {
	event := events.Event{
		Subject:    subject,
		OccurredAt: d.now(),
		ActorID:    actorID,
		EntityID:   entityID,
		Attributes: attrs,
	}
	if err := d.Events.Publish(ctx, event); err != nil {
		d.Logger.WarnContext(ctx, "failed to publish event", "subject", subject, "entity_id", entityID, "error", err)
	}
}

// storeError converts a repository error into a client-facing error.
func storeError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound(notFound)
	default:
		return apperror.Internal(err)
	}
}
