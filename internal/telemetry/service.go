package telemetry

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
)

// MetricsFile is the name of the textfile written when telemetry is on
const MetricsFile = "admin-cli.prom"

// Service tracks telemetry events
type Service struct {
	userID      string
	command     string
	version     string
	executionID string
	tracker     Tracker
	now         func() time.Time
}

// NewService creates a new telemetry service.
// With ModeOn, events are counted and written to metricsPath on Close.
func NewService(mode Mode, metricsPath, userID, command, version string) *Service {
	service := Service{
		userID:      userID,
		command:     command,
		version:     version,
		executionID: primitive.NewObjectID().Hex(),
		now:         time.Now,
	}

	switch mode {
	case ModeOn:
		service.tracker = newTextfileTracker(metricsPath)
	case ModeStdout:
		service.tracker = newStdoutTracker()
	default:
		service.tracker = &noopTracker{}
	}

	return &service
}

// SetUser sets the user id reported with every subsequent event
func (service *Service) SetUser(userID string) {
	service.userID = userID
}

// TrackEvent tracks events
func (service *Service) TrackEvent(eventType EventType, data ...EventData) {
	service.tracker.Track(event{
		id:          primitive.NewObjectID().Hex(),
		eventType:   eventType,
		userID:      service.userID,
		time:        service.now(),
		executionID: service.executionID,
		command:     service.command,
		version:     service.version,
		data:        data,
	})
}

// Observe tracks the dashboard client's session events
func (service *Service) Observe(e dashboard.Event) {
	switch e.Type {
	case dashboard.EventRefresh:
		service.TrackEvent(EventTypeSessionRefresh)
	case dashboard.EventRefreshError:
		service.TrackEvent(EventTypeSessionRefreshError, EventData{EventDataKeyErr, e.Err})
	case dashboard.EventRetry:
		service.TrackEvent(
			EventTypeRequestRetry,
			EventData{EventDataKeyMethod, e.Method},
			EventData{EventDataKeyPath, e.Path},
		)
	case dashboard.EventLoginRedirect:
		service.TrackEvent(EventTypeLoginRedirect)
	}
}

// Close shuts down the Service
func (service *Service) Close() error {
	return service.tracker.Close()
}
