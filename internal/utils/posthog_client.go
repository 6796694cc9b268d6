// posthog_client.go wraps posthog.Client so callers do not have to care
// whether analytics is configured at all.
package utils

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// PosthogClientWrapper is a nil-safe wrapper around a posthog.Client.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

func InitializePosthogClient(apiKey string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, not initializing posthog client.")
		return &PosthogClientWrapper{}
	}
	wrapper := PosthogClientWrapper{}
	wrapper.posthogClient, _ = posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	wrapper.logger = logger
	return &wrapper
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w.posthogClient != nil
}

func (w *PosthogClientWrapper) Enqueue(distinctID string, event string, properties map[string]any) {
	if w.posthogClient == nil {
		return
	}
	w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	})
}

func (w *PosthogClientWrapper) Close() {
	if w.posthogClient == nil {
		return
	}
	w.posthogClient.Close()
}
