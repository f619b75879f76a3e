package event

import (
	"context"
	"fmt"

	"maji/local-app/internal/log"
	"maji/local-app/internal/model"
)

// ActivitySink stores journal entries
type ActivitySink interface {
	RecordActivity(ctx context.Context, kind, detail string) error
}

// journaled are the event types written to the activity journal.
var journaled = []EventType{SessionStarted, SessionEnded, Navigated, SurveySubmitted, CatalogLoaded, Notified}

// AttachJournal records every client event into sink.
func AttachJournal(em *EventManager, sink ActivitySink, logger *log.Logger) {
	for _, t := range journaled {
		em.Subscribe(t, func(e Event) {
			if err := sink.RecordActivity(context.Background(), e.Type.String(), describe(e)); err != nil {
				logger.Warn(context.Background(), "Failed to record activity", log.Fields{
					"event": e.Type.String(),
					"error": err,
				})
			}
		})
	}
}

func describe(e Event) string {
	switch d := e.Data.(type) {
	case nil:
		return ""
	case model.Session:
		return fmt.Sprintf("%s (%s)", d.FullName, d.Role)
	case model.Notification:
		if d.Title == "" {
			return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
		}
		return fmt.Sprintf("[%s] %s: %s", d.Kind, d.Title, d.Message)
	default:
		switch e.Type {
		case SurveySubmitted:
			return fmt.Sprintf("usuario %v", d)
		case CatalogLoaded:
			return fmt.Sprintf("%v modelos", d)
		}
		return fmt.Sprint(d)
	}
}
