package session

import "log/slog"

// Analytics event names.
const (
	EventWidgetAdd    = "widget-layout.widget-add"
	EventWidgetRemove = "widget-layout.widget-remove"
	EventWidgetMove   = "widget-layout.widget-move"
)

// AnalyticsFunc receives fire-and-forget interaction events.
type AnalyticsFunc func(event string, payload map[string]any)

// LogAnalytics returns an AnalyticsFunc that writes events to logger.
func LogAnalytics(logger *slog.Logger) AnalyticsFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(event string, payload map[string]any) {
		args := make([]any, 0, 2+2*len(payload))
		args = append(args, "event", event)
		for k, v := range payload {
			args = append(args, k, v)
		}
		logger.Info("analytics", args...)
	}
}
