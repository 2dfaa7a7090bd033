package utils

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
)

func sentryHub(ctx context.Context) *sentry.Hub {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

func scopeWithCaller(ctx context.Context, scope *sentry.Scope) {
	if creds, ok := CredentialsFromCtx(ctx); ok {
		scope.SetUser(sentry.User{
			ID:       creds.ActorIdentity.UserId,
			Username: creds.ActorIdentity.Username,
		})
		scope.SetTag("role", creds.Role.String())
	}
}

func LogAndReportSentryError(ctx context.Context, err error) {
	logger := LoggerFromContext(ctx)
	logger.ErrorContext(ctx, fmt.Sprintf("%+v", err))

	// the root cause of a cancelled or timed out request is handled elsewhere
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		logger.DebugContext(ctx, fmt.Sprintf("Deadline exceeded or context canceled: %v", err))
		return
	}

	hub := sentryHub(ctx)
	hub.WithScope(func(scope *sentry.Scope) {
		scopeWithCaller(ctx, scope)
		hub.CaptureException(err)
	})
}

// ReportExecutionFailure sends a warning for an approved change that could not be applied.
// Those are reconciled by hand, so they need to reach an operator even though the approval
// request itself succeeds.
func ReportExecutionFailure(ctx context.Context, changeRequestId, targetEntity, message string) {
	hub := sentryHub(ctx)
	hub.WithScope(func(scope *sentry.Scope) {
		scopeWithCaller(ctx, scope)
		scope.SetLevel(sentry.LevelWarning)
		scope.SetTag("change_request_id", changeRequestId)
		scope.SetTag("target_entity", targetEntity)
		hub.CaptureMessage(fmt.Sprintf("approved change %s could not be applied: %s", changeRequestId, message))
	})
}
