package logger

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/ncobase/jobboard/config"
	"github.com/sirupsen/logrus"
)

// SentryHook forwards error entries to Sentry.
type SentryHook struct {
	hub *sentry.Hub
}

// NewSentry initializes the Sentry client and returns a hook, nil when no DSN is set.
func NewSentry(c *config.Sentry, name, release, environment string) (*SentryHook, error) {
	if c == nil || c.DSN == "" {
		return nil, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              c.DSN,
		AttachStacktrace: true,
		TracesSampleRate: c.SampleRate,
		ServerName:       name,
		Release:          release,
		Environment:      environment,
	})
	if err != nil {
		return nil, err
	}
	return &SentryHook{hub: sentry.CurrentHub()}, nil
}

// Levels returns the levels reported to Sentry
func (h *SentryHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel}
}

// Fire sends the entry as a Sentry event
func (h *SentryHook) Fire(entry *logrus.Entry) error {
	event := sentry.NewEvent()
	event.Message = entry.Message
	event.Timestamp = entry.Time
	event.Level = sentry.LevelError
	if entry.Level <= logrus.FatalLevel {
		event.Level = sentry.LevelFatal
	}
	event.Extra = make(map[string]any, len(entry.Data))
	for k, v := range entry.Data {
		if s, ok := v.(string); ok && k == TraceKey {
			event.Tags = map[string]string{TraceKey: s}
		}
		event.Extra[k] = v
	}
	h.hub.CaptureEvent(event)
	return nil
}

// Flush waits for buffered events to be sent
func (h *SentryHook) Flush(timeout time.Duration) {
	h.hub.Flush(timeout)
}
