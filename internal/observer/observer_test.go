package observer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	name   string
	events []Event
}

func (r *recordingObserver) OnEvent(ctx context.Context, event Event) {
	r.events = append(r.events, event)
}

func (r *recordingObserver) GetObserverName() string { return r.name }

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event Event) { panic("boom") }
func (panickingObserver) GetObserverName() string                  { return "panicking" }

func TestEventPublisher_NotifyInOrder(t *testing.T) {
	p := NewEventPublisher()
	first := &recordingObserver{name: "first"}
	second := &recordingObserver{name: "second"}
	p.Subscribe(first)
	p.Subscribe(panickingObserver{})
	p.Subscribe(second)

	p.NotifyObservers(context.Background(), Event{EventType: FetchStarted})
	p.NotifyObservers(context.Background(), Event{EventType: FetchCompleted})

	require.Len(t, first.events, 2)
	require.Len(t, second.events, 2)
	assert.Equal(t, FetchStarted, first.events[0].EventType)
	assert.Equal(t, FetchCompleted, second.events[1].EventType)
	assert.False(t, first.events[0].Timestamp.IsZero(), "timestamp should be filled in")
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	p := NewEventPublisher()
	obs := &recordingObserver{name: "rec"}
	p.Subscribe(obs)
	p.Unsubscribe(&recordingObserver{name: "rec"})

	p.NotifyObservers(context.Background(), Event{EventType: FetchStarted})
	assert.Empty(t, obs.events)
}

func TestNotice(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{Event{EventType: FetchFailed}, NoticeFetchFailed},
		{Event{EventType: FetchCompleted}, ""},
		{Event{EventType: DownloadCompleted}, NoticeDownloadSaved},
		{Event{EventType: DownloadFailed, ErrorType: "permission_denied"}, NoticePermissionRequired},
		{Event{EventType: DownloadFailed, ErrorType: "transfer_error"}, NoticeDownloadFailed},
		{Event{EventType: ShareFailed, ErrorType: "sharing_unavailable"}, NoticeShareUnavailable},
		{Event{EventType: ShareFailed, ErrorType: "transfer_error"}, NoticeShareFailed},
		{Event{EventType: ShareCompleted}, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.event.EventType)+"/"+tt.event.ErrorType, func(t *testing.T) {
			assert.Equal(t, tt.want, Notice(tt.event))
		})
	}
}

func TestLoggingObserver_OnEvent(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	obs := NewLoggingObserver(logger)

	obs.OnEvent(context.Background(), Event{
		EventType:    FetchFailed,
		SessionID:    "s-1",
		Mode:         "reset",
		ErrorType:    "fetch_failure",
		ErrorMessage: "status 500",
	})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "Photo fetch failed", entry.Message)
	assert.Equal(t, "s-1", entry.Data["session_id"])
	assert.Equal(t, NoticeFetchFailed, entry.Data["notice"])

	obs.OnEvent(context.Background(), Event{EventType: FetchDropped, Mode: "append"})
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	assert.NotContains(t, hook.LastEntry().Data, "notice")
}

func TestMetricsObserver_Counts(t *testing.T) {
	obs := NewMetricsObserver("vixel")
	ctx := context.Background()

	obs.OnEvent(ctx, Event{EventType: FetchCompleted, Mode: "reset", Duration: 20 * time.Millisecond})
	obs.OnEvent(ctx, Event{EventType: FetchCompleted, Mode: "append", Duration: 30 * time.Millisecond})
	obs.OnEvent(ctx, Event{EventType: FetchFailed, Mode: "append"})
	obs.OnEvent(ctx, Event{EventType: FetchDropped, Mode: "append"})
	obs.OnEvent(ctx, Event{EventType: DownloadCompleted})
	obs.OnEvent(ctx, Event{EventType: DownloadFailed, ErrorType: "permission_denied"})
	obs.OnEvent(ctx, Event{EventType: ShareFailed})

	assert.Equal(t, 1.0, testutil.ToFloat64(obs.fetches.WithLabelValues("reset", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.fetches.WithLabelValues("append", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.fetches.WithLabelValues("append", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.fetches.WithLabelValues("append", "dropped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.mediaActions.WithLabelValues("download", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.mediaActions.WithLabelValues("download", "permission_denied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.mediaActions.WithLabelValues("share", "failure")))
}

func TestMetricsObserver_Handler(t *testing.T) {
	obs := NewMetricsObserver("vixel")
	obs.OnEvent(context.Background(), Event{EventType: FetchCompleted, Mode: "reset"})

	rec := httptest.NewRecorder()
	obs.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `vixel_fetches_total{mode="reset",result="success"} 1`))
}
