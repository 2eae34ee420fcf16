package observer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Notices shown to the user for each outcome
const (
	NoticeFetchFailed        = "Failed to load photos. Please try again."
	NoticeDownloadSaved      = "Wallpaper saved to your gallery!"
	NoticeDownloadFailed     = "Failed to save wallpaper. Please try again."
	NoticePermissionRequired = "Please grant permission to save images to your gallery."
	NoticeShareUnavailable   = "Sharing is not available on this device."
	NoticeShareFailed        = "Failed to share wallpaper. Please try again."
)

// Notice returns the user-facing message for an event, or "" when the event
// is not surfaced to the user.
func Notice(event Event) string {
	switch event.EventType {
	case FetchFailed:
		return NoticeFetchFailed
	case DownloadCompleted:
		return NoticeDownloadSaved
	case DownloadFailed:
		if event.ErrorType == "permission_denied" {
			return NoticePermissionRequired
		}
		return NoticeDownloadFailed
	case ShareFailed:
		if event.ErrorType == "sharing_unavailable" {
			return NoticeShareUnavailable
		}
		return NoticeShareFailed
	default:
		return ""
	}
}

// LoggingObserver logs events together with the notice they surface
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) *LoggingObserver {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event Event) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"duration":   event.Duration,
		"success":    event.Success,
	}
	if event.SessionID != "" {
		fields["session_id"] = event.SessionID
	}
	if event.Mode != "" {
		fields["mode"] = event.Mode
	}
	if event.URL != "" {
		fields["url"] = event.URL
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
		fields["error_type"] = event.ErrorType
	}
	if notice := Notice(event); notice != "" {
		fields["notice"] = notice
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case FetchStarted:
		entry.Debug("Photo fetch started")
	case FetchCompleted:
		entry.Info("Photo fetch completed")
	case FetchFailed:
		entry.Error("Photo fetch failed")
	case FetchDropped:
		entry.Debug("Photo fetch dropped")
	case DownloadCompleted:
		entry.Info("Wallpaper downloaded")
	case DownloadFailed:
		entry.Error("Wallpaper download failed")
	case ShareCompleted:
		entry.Info("Wallpaper shared")
	case ShareFailed:
		entry.Error("Wallpaper share failed")
	default:
		entry.Info("Event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}
