package apierr

import (
	"context"

	"maji/local-app/internal/log"
	"maji/local-app/internal/notify"
)

// Normalizer is shared by every backend call. Besides normalizing, it shows
// the result on the notification channel and stops the loading indicator.
type Normalizer struct {
	notifications *notify.Channel
	loading       *notify.Indicator
	logger        *log.Logger
}

// NewNormalizer creates a Normalizer. notifications and loading may be nil.
func NewNormalizer(notifications *notify.Channel, loading *notify.Indicator, logger *log.Logger) *Normalizer {
	return &Normalizer{notifications: notifications, loading: loading, logger: logger}
}

// Handle normalizes f, reports it and returns the result.
func (n *Normalizer) Handle(ctx context.Context, f Failure) *Error {
	apiErr := Normalize(f)

	fields := log.Fields{
		"status":  f.Status,
		"title":   apiErr.Title,
		"message": apiErr.Message,
	}
	if f.Err != nil {
		fields["error"] = f.Err.Error()
	}
	n.logger.Error(ctx, "Backend request failed", fields)

	if n.notifications != nil {
		n.notifications.Error(apiErr.Message, apiErr.Title)
	}
	if n.loading != nil {
		n.loading.Set(false)
	}
	return apiErr
}
