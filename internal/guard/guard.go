// Package guard gates commands behind an authenticated session
package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/nav"
	"github.com/stockroom/admin-cli/internal/session"
)

// State is a guard state
type State string

// set of guard states
const (
	StateNoToken         State = "no_token"
	StateLoading         State = "loading"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
	StateForbidden       State = "forbidden"
)

// Decision is the outcome of a guard check
type Decision struct {
	State    State
	User     session.User
	Redirect nav.Route
}

// Allowed returns true if the protected command may run
func (d Decision) Allowed() bool {
	return d.State == StateAuthenticated
}

// Options configure a guard
type Options struct {
	// Redirector receives the guard's redirects, defaults to nav.Noop
	Redirector nav.Redirector

	// OnState is notified of every state the guard enters
	OnState func(state State)
}

// Guard decides whether a protected command may run
type Guard interface {
	Check(ctx context.Context) (Decision, error)
}

// AuthGuard admits any authenticated user
type AuthGuard struct {
	session    *session.Context
	identity   *Identity
	redirector nav.Redirector
	onState    func(state State)
}

// NewAuthGuard creates a new guard requiring an authenticated session
func NewAuthGuard(sess *session.Context, identity *Identity, opts Options) *AuthGuard {
	g := AuthGuard{
		session:    sess,
		identity:   identity,
		redirector: opts.Redirector,
		onState:    opts.OnState,
	}
	if g.redirector == nil {
		g.redirector = nav.Noop
	}
	if g.onState == nil {
		g.onState = func(State) {}
	}
	return &g
}

// Check resolves the current user, hydrating the session store on success
// and redirecting to login otherwise.
// Once ctx is done no state is written and no redirect is issued.
func (g *AuthGuard) Check(ctx context.Context) (Decision, error) {
	if decision, err := g.checkToken(ctx); err != nil {
		return decision, err
	}

	user, decision, err := g.resolve(ctx)
	if err != nil {
		return decision, err
	}
	return g.admit(user), nil
}

func (g *AuthGuard) resolve(ctx context.Context) (session.User, Decision, error) {
	if _, ok := g.identity.Fresh(); !ok {
		if _, ok := g.identity.Cached(); !ok {
			g.onState(StateLoading)
		}
	}

	user, err := g.identity.Fetch(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return session.User{}, Decision{State: StateLoading}, ctxErr
	}
	if err != nil {
		decision, err := g.unauthenticated(ErrUnauthenticated{err})
		return session.User{}, decision, err
	}

	if err := g.session.Users.SetUser(ctx, user); err != nil {
		return session.User{}, Decision{State: StateLoading}, fmt.Errorf("failed to hydrate session: %w", err)
	}
	return user, Decision{}, nil
}

func (g *AuthGuard) checkToken(ctx context.Context) (Decision, error) {
	token, err := g.session.Tokens.AccessToken(ctx)
	if err == nil && token != "" {
		return Decision{}, nil
	}
	g.onState(StateNoToken)
	return g.unauthenticated(ErrUnauthenticated{err})
}

func (g *AuthGuard) admit(user session.User) Decision {
	g.onState(StateAuthenticated)
	return Decision{State: StateAuthenticated, User: user}
}

func (g *AuthGuard) unauthenticated(err error) (Decision, error) {
	g.onState(StateUnauthenticated)

	// a client that could not recover the session has already sent the user to login
	var loginRequired dashboard.ErrLoginRequired
	if !errors.As(err, &loginRequired) {
		g.redirector.Redirect(nav.RouteLogin)
	}
	return Decision{State: StateUnauthenticated, Redirect: nav.RouteLogin}, err
}

// AdminGuard admits users holding the administrator role
type AdminGuard struct {
	*AuthGuard
}

// NewAdminGuard creates a new guard requiring the administrator role
func NewAdminGuard(sess *session.Context, identity *Identity, opts Options) *AdminGuard {
	return &AdminGuard{NewAuthGuard(sess, identity, opts)}
}

// Check resolves the current user like AuthGuard and additionally requires
// the administrator role, redirecting other users to the products landing route.
// A user already held by the session store is trusted while no identity
// query is in flight.
func (g *AdminGuard) Check(ctx context.Context) (Decision, error) {
	if decision, err := g.checkToken(ctx); err != nil {
		return decision, err
	}

	if user, ok := g.session.Users.User(); ok && !g.identity.InFlight() {
		return g.authorize(user)
	}

	user, decision, err := g.resolve(ctx)
	if err != nil {
		return decision, err
	}
	return g.authorize(user)
}

func (g *AdminGuard) authorize(user session.User) (Decision, error) {
	if !user.IsAdmin() {
		g.onState(StateForbidden)
		g.redirector.Redirect(nav.RouteProducts)
		return Decision{State: StateForbidden, User: user, Redirect: nav.RouteProducts}, ErrForbidden{user.Role.Name}
	}

	return g.admit(user), nil
}
