// Package nav describes where the CLI sends a user whose session cannot proceed
package nav

import (
	"sync"
)

// Route is a navigation target
type Route string

// set of navigation targets
const (
	RouteLogin    Route = "/login"
	RouteProducts Route = "/products"
)

// Redirector navigates away from the current command
type Redirector interface {
	Redirect(route Route)
}

// RedirectorFunc adapts a func into a Redirector
type RedirectorFunc func(route Route)

// Redirect calls fn(route)
func (fn RedirectorFunc) Redirect(route Route) { fn(route) }

// Noop is a Redirector that ignores redirects
var Noop Redirector = RedirectorFunc(func(Route) {})

// Recorder is a Redirector that remembers every redirect
type Recorder struct {
	mu     sync.Mutex
	routes []Route
}

// Redirect records the route
func (r *Recorder) Redirect(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

// Routes returns the recorded routes in order
func (r *Recorder) Routes() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Route(nil), r.routes...)
}

// Last returns the most recently recorded route
func (r *Recorder) Last() (Route, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.routes) == 0 {
		return "", false
	}
	return r.routes[len(r.routes)-1], true
}
