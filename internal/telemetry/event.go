package telemetry

import (
	"time"
)

type event struct {
	id          string
	eventType   EventType
	userID      string
	time        time.Time
	executionID string
	command     string
	version     string
	data        []EventData
}

// EventData holds additional event information
type EventData struct {
	Key   EventDataKey
	Value interface{}
}

// EventType is a cli event type
type EventType string

// set of supported cli event types
const (
	EventTypeCommandStart    EventType = "COMMAND_START"
	EventTypeCommandComplete EventType = "COMMAND_COMPLETE"
	EventTypeCommandError    EventType = "COMMAND_ERROR"

	EventTypeSessionRefresh      EventType = "SESSION_REFRESH"
	EventTypeSessionRefreshError EventType = "SESSION_REFRESH_ERROR"
	EventTypeRequestRetry        EventType = "REQUEST_RETRY"
	EventTypeLoginRedirect       EventType = "LOGIN_REDIRECT"
)

// EventDataKey used to pass data into the event data
type EventDataKey string

// set of data keys
const (
	EventDataKeyErr    EventDataKey = "err"
	EventDataKeyMethod EventDataKey = "method"
	EventDataKeyPath   EventDataKey = "path"
)
