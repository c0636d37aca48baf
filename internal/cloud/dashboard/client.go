package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/stockroom/admin-cli/internal/nav"
	"github.com/stockroom/admin-cli/internal/session"
	"github.com/stockroom/admin-cli/internal/utils/api"
)

// Client is a dashboard API client
type Client interface {
	Login(ctx context.Context, username, password string) (AuthResponse, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (string, error)
	UserInfo(ctx context.Context) (session.User, error)

	DashboardStats(ctx context.Context) (DashboardStats, error)

	Products(ctx context.Context, filter ProductFilter) (ProductPage, error)
	Product(ctx context.Context, productID string) (Product, error)
	CreateProduct(ctx context.Context, product ProductInput) (Product, error)
	UpdateProduct(ctx context.Context, productID string, patch ProductPatch) (Product, error)
	DeleteProduct(ctx context.Context, productID string) error

	Transactions(ctx context.Context, filter TransactionFilter) (TransactionPage, error)
	CreateTransaction(ctx context.Context, transaction TransactionInput) (Transaction, error)
}

// ClientOptions configure the dashboard client
type ClientOptions struct {
	// HTTPClient sends the requests, defaults to http.DefaultClient
	HTTPClient *http.Client

	// Redirector is notified when the session cannot be recovered
	Redirector nav.Redirector

	// Observer is notified of session refreshes and retries
	Observer Observer

	// ErrLogger receives refresh failures
	ErrLogger *log.Logger

	// RefreshPerRequest makes every request that fails authorization run
	// its own refresh instead of sharing the one already in flight
	RefreshPerRequest bool
}

// NewClient creates a new dashboard client without a session
func NewClient(baseURL string) Client {
	return NewAuthClient(baseURL, session.NewContext(context.Background(), session.NewMemoryStorage()), ClientOptions{})
}

// NewAuthClient creates a new dashboard client capable of managing the user's session
func NewAuthClient(baseURL string, sess *session.Context, opts ClientOptions) Client {
	c := client{
		baseURL:           baseURL,
		session:           sess,
		httpClient:        opts.HTTPClient,
		redirector:        opts.Redirector,
		observer:          opts.Observer,
		errLogger:         opts.ErrLogger,
		refreshPerRequest: opts.RefreshPerRequest,
		header:            http.Header{},
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.redirector == nil {
		c.redirector = nav.Noop
	}
	if c.observer == nil {
		c.observer = noopObserver
	}
	if c.errLogger == nil {
		c.errLogger = log.New(io.Discard, "", 0)
	}
	return &c
}

const refreshFlightKey = "refresh"

type client struct {
	baseURL           string
	session           *session.Context
	httpClient        *http.Client
	redirector        nav.Redirector
	observer          Observer
	errLogger         *log.Logger
	refreshPerRequest bool

	refreshGroup singleflight.Group

	headerMu sync.RWMutex
	header   http.Header
}

func (c *client) doJSON(ctx context.Context, method, path string, payload interface{}, options api.RequestOptions) (*http.Response, error) {
	jsonOptions, err := api.JSONRequestOptions(payload)
	if err != nil {
		return nil, err
	}

	options.Body = jsonOptions.Body
	options.ContentType = jsonOptions.ContentType

	return c.do(ctx, method, path, options)
}

// do sends the request and returns any successful response.
// A response failing authorization with a token present runs a refresh
// and resubmits the same request exactly once.
func (c *client) do(ctx context.Context, method, path string, options api.RequestOptions) (*http.Response, error) {
	if options.Header.Get(api.HeaderRequestID) == "" {
		options.Header = cloneHeader(options.Header)
		options.Header.Set(api.HeaderRequestID, uuid.NewString())
	}

	req, sentToken, err := c.newRequest(ctx, method, path, options)
	if err != nil {
		return nil, err
	}

	res, resErr := c.httpClient.Do(req)
	if resErr != nil {
		return nil, resErr
	}

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return res, nil
	}
	defer res.Body.Close()

	// a rejected response may still clear the refresh cookie
	if err := c.session.Cookies.Update(ctx, res.Cookies()); err != nil {
		c.errLogger.Printf("failed to update refresh cookie: %s", err)
	}

	parsedErr := parseResponseError(res)
	serverErr, ok := parsedErr.(ServerError)
	if !ok {
		return nil, parsedErr
	}
	if options.PreventRefresh || !serverErr.InvalidCredentials() {
		return nil, serverErr
	}

	if sentToken == "" {
		c.redirectToLogin()
		return nil, ErrLoginRequired{}
	}

	if _, err := c.refreshAuth(ctx, sentToken); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.errLogger.Printf("failed to refresh session: %s", err)
		c.observer.Observe(Event{Type: EventRefreshError, Err: err})
		c.redirectToLogin()
		return nil, ErrLoginRequired{err}
	}

	c.observer.Observe(Event{Type: EventRetry, Method: method, Path: path})

	options.PreventRefresh = true
	return c.do(ctx, method, path, options)
}

func (c *client) newRequest(ctx context.Context, method, path string, options api.RequestOptions) (*http.Request, string, error) {
	var body io.Reader
	if options.Body != nil {
		body = bytes.NewReader(options.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, "", err
	}

	api.IncludeQuery(req, options.Query)

	c.headerMu.RLock()
	for key, values := range c.header {
		req.Header[key] = append([]string(nil), values...)
	}
	c.headerMu.RUnlock()

	for key, values := range options.Header {
		req.Header[key] = append([]string(nil), values...)
	}

	req.Header.Set(api.HeaderAccept, api.MediaTypeJSON)
	if options.ContentType != "" {
		req.Header.Set(api.HeaderContentType, options.ContentType)
	}

	token, err := c.session.Tokens.AccessToken(ctx)
	if err != nil {
		return nil, "", ErrRequestFailed{err}
	}
	req.Header.Set(api.HeaderAuthorization, "Bearer "+token)

	return req, token, nil
}

// refreshAuth replaces the access token that failed authorization.
// Unless refreshing per request, concurrent callers share one refresh,
// and a caller whose token has already been replaced reuses the replacement.
// Processes sharing the session storage take turns through its refresh lock.
func (c *client) refreshAuth(ctx context.Context, failedToken string) (string, error) {
	if c.refreshPerRequest {
		return c.refreshAndStore(ctx)
	}

	ch := c.refreshGroup.DoChan(refreshFlightKey, func() (interface{}, error) {
		flightCtx := context.WithoutCancel(ctx)

		unlock, err := c.session.LockRefresh(flightCtx)
		if err != nil {
			return "", err
		}
		defer unlock()

		current, err := c.session.Tokens.AccessToken(flightCtx)
		if err != nil {
			return "", err
		}
		if current != "" && current != failedToken {
			return current, nil
		}
		return c.refreshAndStore(flightCtx)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-ch:
		if result.Err != nil {
			return "", result.Err
		}
		return result.Val.(string), nil
	}
}

func (c *client) refreshAndStore(ctx context.Context) (string, error) {
	token, err := c.Refresh(ctx)
	if err != nil {
		return "", err
	}

	if err := c.session.Tokens.Replace(ctx, token); err != nil {
		return "", err
	}

	c.headerMu.Lock()
	c.header.Set(api.HeaderAuthorization, "Bearer "+token)
	c.headerMu.Unlock()

	c.observer.Observe(Event{Type: EventRefresh})
	return token, nil
}

func (c *client) redirectToLogin() {
	c.observer.Observe(Event{Type: EventLoginRedirect})
	c.redirector.Redirect(nav.RouteLogin)
}

// defaultHeader returns the header value every request starts from
func (c *client) defaultHeader(key string) string {
	c.headerMu.RLock()
	defer c.headerMu.RUnlock()
	return c.header.Get(key)
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// decodeData decodes the `data` field of a successful response envelope
func decodeData(res *http.Response, out interface{}) error {
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return ErrRequestFailed{err}
	}
	if len(env.Data) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return ErrRequestFailed{err}
	}
	return nil
}

func cloneHeader(header http.Header) http.Header {
	if header == nil {
		return http.Header{}
	}
	return header.Clone()
}
