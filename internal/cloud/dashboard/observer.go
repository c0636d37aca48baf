package dashboard

// EventType is the type of a session event
type EventType string

// set of session events
const (
	EventRefresh       EventType = "refresh"
	EventRefreshError  EventType = "refresh_error"
	EventRetry         EventType = "retry"
	EventLoginRedirect EventType = "login_redirect"
)

// Event is a session event emitted by the client
type Event struct {
	Type   EventType
	Method string
	Path   string
	Err    error
}

// Observer receives the client's session events
type Observer interface {
	Observe(event Event)
}

// ObserverFunc adapts a func into an Observer
type ObserverFunc func(event Event)

// Observe calls fn(event)
func (fn ObserverFunc) Observe(event Event) { fn(event) }

var noopObserver Observer = ObserverFunc(func(Event) {})
