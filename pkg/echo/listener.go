// Package echo dispatches execution lifecycle events to the notification
// service. It is a side channel: nothing that happens here may affect the
// execution it reports on.
package echo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alexgaganashvili/orca/pkg/auth"
	"github.com/alexgaganashvili/orca/pkg/eventbus"
	"github.com/alexgaganashvili/orca/pkg/events"
	"github.com/alexgaganashvili/orca/pkg/models"
	"github.com/alexgaganashvili/orca/pkg/notifications"
	"github.com/alexgaganashvili/orca/pkg/otelhelper"
	"github.com/alexgaganashvili/orca/pkg/template"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ApplicationNotificationSource fetches application-scoped notifications from
// the configuration registry under the given identity.
type ApplicationNotificationSource interface {
	ApplicationNotifications(ctx context.Context, identity auth.Identity, application string) ([]*models.Notification, error)
}

// ExecutionListener publishes a lifecycle event when an execution starts or
// finishes. Any failure along the way is logged with the execution id and
// swallowed; the hooks never raise to the engine and never touch the
// execution status.
type ExecutionListener struct {
	registry  ApplicationNotificationSource
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
	logger    *slog.Logger
}

func NewExecutionListener(
	registry ApplicationNotificationSource,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
) *ExecutionListener {
	return &ExecutionListener{
		registry:  registry,
		publisher: publisher,
		tracer:    otel.Tracer("orca.echo"),
		logger:    logger.With("module", "echo"),
	}
}

// BeforeExecution is invoked by the engine just before an execution starts.
func (l *ExecutionListener) BeforeExecution(ctx context.Context, execution *models.Execution) {
	l.dispatch(ctx, execution, events.PhaseStarting)
}

// AfterExecution is invoked by the engine once an execution has ended.
func (l *ExecutionListener) AfterExecution(ctx context.Context, execution *models.Execution, _ models.ExecutionStatus, wasSuccessful bool) {
	l.dispatch(ctx, execution, events.CompletionPhase(wasSuccessful))
}

// dispatch owns the failure-isolation boundary: everything below it returns
// errors, everything above it sees none.
func (l *ExecutionListener) dispatch(ctx context.Context, execution *models.Execution, phase events.Phase) {
	if execution.Status == models.ExecutionStatusSuspended {
		return
	}

	ctx, span := l.tracer.Start(ctx, "echo.dispatch", trace.WithAttributes(
		attribute.String(otelhelper.ExecutionIDKey, execution.ID),
		attribute.String(otelhelper.ExecutionTypeKey, string(execution.Type)),
		attribute.String(otelhelper.ApplicationKey, execution.Application),
		attribute.String(otelhelper.PhaseKey, string(phase)),
	))
	defer span.End()

	err := l.notify(ctx, execution, phase)
	if err != nil {
		otelhelper.SetError(span, err)
		l.logger.ErrorContext(ctx, "Failed to dispatch lifecycle notification",
			"execution_id", execution.ID,
			"application", execution.Application,
			"phase", phase,
			"error", err,
		)
	}
}

func (l *ExecutionListener) notify(ctx context.Context, execution *models.Execution, phase events.Phase) error {
	err := l.evaluateNotifications(execution)
	if err != nil {
		return err
	}

	if execution.Type == models.ExecutionTypePipeline {
		err = l.mergeApplicationNotifications(ctx, execution)
		if err != nil {
			return err
		}
	}

	content, err := buildContent(execution)
	if err != nil {
		return err
	}

	record := events.NewEventRecord(events.Details{
		Source:      events.Source,
		Type:        events.TypeTag(execution.Type, phase),
		Application: execution.Application,
	}, content)

	// Event recording must not depend on caller authorization: publishing is
	// always anonymous, even when the execution carries an initiating user.
	err = l.publisher.PublishEvent(ctx, auth.Anonymous, record)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", record.Details.Type, err)
	}

	return nil
}

// evaluateNotifications resolves template expressions inside the execution's
// own notifications and replaces the list wholesale.
func (l *ExecutionListener) evaluateNotifications(execution *models.Execution) error {
	if len(execution.Notifications) == 0 {
		return nil
	}

	data, err := templateContext(execution)
	if err != nil {
		return err
	}

	evaluated := make([]*models.Notification, len(execution.Notifications))

	for i, notification := range execution.Notifications {
		evaluated[i], err = evaluateNotification(notification, data)
		if err != nil {
			return err
		}
	}

	execution.Notifications = evaluated

	return nil
}

// mergeApplicationNotifications fetches the application's own notifications
// and folds them into the execution's list. The fetch impersonates the
// initiating user when the execution has one.
func (l *ExecutionListener) mergeApplicationNotifications(ctx context.Context, execution *models.Execution) error {
	identity := auth.User(execution.InitiatingUser())

	appNotifications, err := l.registry.ApplicationNotifications(ctx, identity, execution.Application)
	if err != nil {
		return fmt.Errorf("failed to fetch application notifications for %s: %w", execution.Application, err)
	}

	if len(appNotifications) == 0 {
		return nil
	}

	data, err := templateContext(execution)
	if err != nil {
		return err
	}

	evaluated := make([]*models.Notification, len(appNotifications))

	for i, notification := range appNotifications {
		evaluated[i], err = evaluateNotification(notification, data)
		if err != nil {
			return err
		}
	}

	execution.Notifications = notifications.Merge(execution.Notifications, evaluated)

	return nil
}

// buildContent assembles the event payload: the evaluated execution
// representation plus its id.
func buildContent(execution *models.Execution) (map[string]any, error) {
	executionMap, err := toMap(execution)
	if err != nil {
		return nil, err
	}

	content := map[string]any{
		"execution":   executionMap,
		"executionId": execution.ID,
	}

	resolved, err := template.Evaluate(content, map[string]any{"execution": executionMap}, true)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate event content: %w", err)
	}

	resolvedMap, ok := resolved.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("evaluated event content has unexpected shape %T", resolved)
	}

	return resolvedMap, nil
}

func templateContext(execution *models.Execution) (map[string]any, error) {
	executionMap, err := toMap(execution)
	if err != nil {
		return nil, err
	}

	data := map[string]any{
		"execution":   executionMap,
		"application": execution.Application,
	}

	if execution.Trigger != nil {
		trigger, err := toMap(execution.Trigger)
		if err != nil {
			return nil, err
		}

		data["trigger"] = trigger
	}

	return data, nil
}

func evaluateNotification(notification *models.Notification, data map[string]any) (*models.Notification, error) {
	asMap, err := toMap(notification)
	if err != nil {
		return nil, err
	}

	resolved, err := template.Evaluate(asMap, data, true)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate notification: %w", err)
	}

	raw, err := json.Marshal(resolved)
	if err != nil {
		return nil, err
	}

	var out models.Notification

	err = json.Unmarshal(raw, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// toMap converts a value to its JSON map representation, the shape template
// expressions address fields through.
func toMap(value any) (map[string]any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var out map[string]any

	err = json.Unmarshal(raw, &out)
	if err != nil {
		return nil, err
	}

	return out, nil
}
