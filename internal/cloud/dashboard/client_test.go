package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stockroom/admin-cli/internal/nav"
	"github.com/stockroom/admin-cli/internal/session"
	"github.com/stockroom/admin-cli/internal/utils/api"
	"github.com/stockroom/admin-cli/internal/utils/test/assert"
)

type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Cookie        string
	Body          string
}

// testBackend accepts only the access tokens it has issued and issues a new one on every refresh
type testBackend struct {
	mu            sync.Mutex
	valid         map[string]bool
	refreshes     int
	refreshStatus int
	requests      []recordedRequest

	// barrier, when set, holds every rejected request until n of them have arrived
	barrier     chan struct{}
	barrierN    int
	barrierSeen int

	handlers map[string]http.HandlerFunc
}

func newTestBackend(t *testing.T, token string) (*testBackend, *httptest.Server) {
	t.Helper()
	backend := &testBackend{valid: map[string]bool{token: true}, handlers: map[string]http.HandlerFunc{}}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	return backend, server
}

func (b *testBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	rec := recordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get(api.HeaderAuthorization),
		RequestID:     r.Header.Get(api.HeaderRequestID),
		Cookie:        r.Header.Get(api.HeaderCookie),
		Body:          string(body),
	}

	b.mu.Lock()
	b.requests = append(b.requests, rec)
	b.mu.Unlock()

	if r.URL.Path == authRefreshPath {
		b.serveRefresh(w, r)
		return
	}

	if handler, ok := b.handlers[r.URL.Path]; ok {
		handler(w, r)
		return
	}

	b.mu.Lock()
	authorized := b.valid[strings.TrimPrefix(rec.Authorization, "Bearer ")]
	b.mu.Unlock()

	if !authorized {
		b.waitBarrier()
		writeError(w, http.StatusUnauthorized, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"echo": rec.Body})
}

func (b *testBackend) serveRefresh(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	status := b.refreshStatus
	b.refreshes++
	n := b.refreshes
	token := fmt.Sprintf("T%d", n+1)
	if status == 0 {
		b.valid[token] = true
	}
	b.mu.Unlock()

	if status != 0 {
		http.SetCookie(w, &http.Cookie{Name: session.DefaultRefreshCookie, MaxAge: -1})
		writeError(w, status, status, "refresh rejected")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: session.DefaultRefreshCookie, Value: fmt.Sprintf("r%d", n+1), HttpOnly: true})
	writeData(w, http.StatusOK, AuthResponse{AccessToken: token})
}

func (b *testBackend) waitBarrier() {
	b.mu.Lock()
	if b.barrier == nil {
		b.mu.Unlock()
		return
	}
	b.barrierSeen++
	if b.barrierSeen == b.barrierN {
		close(b.barrier)
	}
	barrier := b.barrier
	b.mu.Unlock()
	<-barrier
}

func (b *testBackend) expireTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.valid = map[string]bool{}
}

func (b *testBackend) setBarrier(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.barrier = make(chan struct{})
	b.barrierN = n
}

func (b *testBackend) refreshCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshes
}

func (b *testBackend) recorded(path string) []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []recordedRequest
	for _, req := range b.requests {
		if req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set(api.HeaderContentType, api.MediaTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func writeError(w http.ResponseWriter, httpStatus, statusCode int, message string) {
	w.Header().Set(api.HeaderContentType, api.MediaTypeJSON)
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"statusCode": statusCode,
		"message":    message,
		"error":      http.StatusText(statusCode),
	})
}

type testSetup struct {
	client     *client
	storage    *session.MemoryStorage
	session    *session.Context
	redirects  *nav.Recorder
	events     *eventRecorder
	errLogs    *bytes.Buffer
	background context.Context
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) Observe(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) count(eventType EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, event := range r.events {
		if event.Type == eventType {
			n++
		}
	}
	return n
}

func newTestClient(t *testing.T, baseURL, token string, perRequest bool) testSetup {
	t.Helper()
	ctx := context.Background()

	storage := session.NewMemoryStorage()
	sess := session.NewContext(ctx, storage)
	if token != "" {
		assert.Nil(t, sess.Tokens.Replace(ctx, token))
	}

	redirects := &nav.Recorder{}
	events := &eventRecorder{}
	errLogs := new(bytes.Buffer)

	c := NewAuthClient(baseURL, sess, ClientOptions{
		Redirector:        redirects,
		Observer:          events,
		ErrLogger:         log.New(errLogs, "UTC ERROR ", 0),
		RefreshPerRequest: perRequest,
	})
	return testSetup{c.(*client), storage, sess, redirects, events, errLogs, ctx}
}

func TestClientAuthorization(t *testing.T) {
	t.Run("should attach the stored access token as a bearer token", func(t *testing.T) {
		backend, server := newTestBackend(t, "T1")
		setup := newTestClient(t, server.URL, "T1", false)

		_, err := setup.client.do(setup.background, http.MethodGet, "/products", api.RequestOptions{})
		assert.Nil(t, err)

		requests := backend.recorded("/products")
		assert.Equal(t, 1, len(requests))
		assert.Equal(t, "Bearer T1", requests[0].Authorization)
		assert.True(t, requests[0].RequestID != "", "expected a request id to be sent")
	})

	t.Run("should send an empty bearer token when no token is stored", func(t *testing.T) {
		backend, server := newTestBackend(t, "T1")
		backend.handlers["/public"] = func(w http.ResponseWriter, r *http.Request) {
			writeData(w, http.StatusOK, nil)
		}
		setup := newTestClient(t, server.URL, "", false)

		_, err := setup.client.do(setup.background, http.MethodGet, "/public", api.RequestOptions{})
		assert.Nil(t, err)

		assert.Equal(t, "Bearer ", backend.recorded("/public")[0].Authorization)
	})
}

func TestClientRefresh(t *testing.T) {
	t.Run("should refresh once and retry the original request with the new token", func(t *testing.T) {
		backend, server := newTestBackend(t, "T1")
		setup := newTestClient(t, server.URL, "T1", false)
		assert.Nil(t, setup.session.Cookies.Update(setup.background, []*http.Cookie{{Name: session.DefaultRefreshCookie, Value: "r1"}}))

		backend.expireTokens()

		res, err := setup.client.doJSON(setup.background, http.MethodPost, "/transactions", map[string]int{"quantity": 3}, api.RequestOptions{})
		assert.Nil(t, err)

		var out map[string]string
		assert.Nil(t, decodeData(res, &out))
		assert.Equal(t, `{"quantity":3}`, out["echo"])

		assert.Equal(t, 1, backend.refreshCount())

		refreshes := backend.recorded(authRefreshPath)
		assert.Equal(t, "refresh_token=r1", refreshes[0].Cookie)

		requests := backend.recorded("/transactions")
		assert.Equal(t, 2, len(requests))
		assert.Equal(t, "Bearer T1", requests[0].Authorization)
		assert.Equal(t, "Bearer T2", requests[1].Authorization)
		assert.Equal(t, requests[0].Body, requests[1].Body)
		assert.Equal(t, requests[0].RequestID, requests[1].RequestID)

		token, err := setup.session.Tokens.AccessToken(setup.background)
		assert.Nil(t, err)
		assert.Equal(t, "T2", token)
		assert.Equal(t, "Bearer T2", setup.client.defaultHeader(api.HeaderAuthorization))

		cookie, err := setup.session.Cookies.Load(setup.background)
		assert.Nil(t, err)
		assert.Equal(t, "r2", cookie.Value)

		assert.Equal(t, 1, setup.events.count(EventRefresh))
		assert.Equal(t, 1, setup.events.count(EventRetry))
		assert.Equal(t, 0, len(setup.redirects.Routes()))
	})

	t.Run("should not refresh a second time when the retried request fails authorization", func(t *testing.T) {
		backend, server := newTestBackend(t, "T1")
		backend.handlers["/products"] = func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusUnauthorized, http.StatusUnauthorized, "Unauthorized")
		}
		setup := newTestClient(t, server.URL, "T1", false)

		_, err := setup.client.do(setup.background, http.MethodGet, "/products", api.RequestOptions{})

		assert.Equal(t, ServerError{
			HTTPStatus: http.StatusUnauthorized,
			StatusCode: http.StatusUnauthorized,
			Message:    "Unauthorized",
			Kind:       "Unauthorized",
		}, err)
		assert.Equal(t, 1, backend.refreshCount())
		assert.Equal(t, 2, len(backend.recorded("/products")))
	})

	t.Run("should redirect to login without refreshing when no token is stored", func(t *testing.T) {
		backend, server := newTestBackend(t, "T1")
		setup := newTestClient(t, server.URL, "", false)

		_, err := setup.client.do(setup.background, http.MethodGet, "/products", api.RequestOptions{})

		var loginErr ErrLoginRequired
		assert.True(t, errors.As(err, &loginErr), "expected a login required error but got: %v", err)
		assert.Nil(t, loginErr.Cause)
		assert.Equal(t, 0, backend.refreshCount())
		assert.Equal(t, []nav.Route{nav.RouteLogin}, setup.redirects.Routes())
	})

	t.Run("should redirect to login without retrying when the refresh fails", func(t *testing.T) {
		backend, server := newTestBackend(t, "T1")
		backend.refreshStatus = http.StatusUnauthorized
		setup := newTestClient(t, server.URL, "T0", false)
		assert.Nil(t, setup.session.Cookies.Update(setup.background, []*http.Cookie{{Name: session.DefaultRefreshCookie, Value: "r0"}}))

		_, err := setup.client.do(setup.background, http.MethodGet, "/products", api.RequestOptions{})

		var loginErr ErrLoginRequired
		assert.True(t, errors.As(err, &loginErr), "expected a login required error but got: %v", err)

		var serverErr ServerError
		assert.True(t, errors.As(err, &serverErr), "expected the refresh failure to be wrapped")
		assert.Equal(t, "refresh rejected", serverErr.Message)

		assert.Equal(t, 1, backend.refreshCount())
		assert.Equal(t, 1, len(backend.recorded("/products")))
		assert.Equal(t, []nav.Route{nav.RouteLogin}, setup.redirects.Routes())
		assert.True(t, strings.Contains(setup.errLogs.String(), "failed to refresh session: refresh rejected"),
			"expected the refresh failure to be logged but got: %s", setup.errLogs.String())
		assert.Equal(t, 1, setup.events.count(EventRefreshError))

		token, err := setup.session.Tokens.AccessToken(setup.background)
		assert.Nil(t, err)
		assert.Equal(t, "T0", token)

		cookie, err := setup.session.Cookies.Load(setup.background)
		assert.Nil(t, err)
		assert.True(t, cookie == nil, "expected the rejected refresh cookie to be removed")
	})

	t.Run("should not refresh when the payload does not report an authorization failure", func(t *testing.T) {
		backend, server := newTestBackend(t, "T1")
		backend.handlers["/products"] = func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusUnauthorized, http.StatusForbidden, "Forbidden resource")
		}
		setup := newTestClient(t, server.URL, "T1", false)

		_, err := setup.client.do(setup.background, http.MethodGet, "/products", api.RequestOptions{})

		assert.Equal(t, "Forbidden resource", err.Error())
		assert.Equal(t, 0, backend.refreshCount())
		assert.Equal(t, 0, len(setup.redirects.Routes()))
	})

	t.Run("should not refresh on an unrelated server error", func(t *testing.T) {
		backend, server := newTestBackend(t, "T1")
		backend.handlers["/products"] = func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusInternalServerError, http.StatusInternalServerError, "something bad happened")
		}
		setup := newTestClient(t, server.URL, "T1", false)

		_, err := setup.client.do(setup.background, http.MethodGet, "/products", api.RequestOptions{})

		serverErr, ok := err.(ServerError)
		assert.True(t, ok, "expected a server error but got: %T", err)
		assert.Equal(t, http.StatusInternalServerError, serverErr.HTTPStatus)
		assert.Equal(t, 0, backend.refreshCount())
	})

	t.Run("should return a transport failure unchanged", func(t *testing.T) {
		_, server := newTestBackend(t, "T1")
		setup := newTestClient(t, server.URL, "T1", false)
		server.Close()

		_, err := setup.client.do(setup.background, http.MethodGet, "/products", api.RequestOptions{})
		assert.NotNil(t, err)

		var loginErr ErrLoginRequired
		assert.False(t, errors.As(err, &loginErr), "expected a transport error but got: %v", err)
		var failedErr ErrRequestFailed
		assert.False(t, errors.As(err, &failedErr), "expected a transport error but got: %v", err)
	})

	t.Run("should wrap an undecodable payload", func(t *testing.T) {
		backend, server := newTestBackend(t, "T1")
		backend.handlers["/users/info"] = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(api.HeaderContentType, api.MediaTypeJSON)
			w.Write([]byte("not json"))
		}
		setup := newTestClient(t, server.URL, "T1", false)

		_, err := setup.client.UserInfo(setup.background)

		var failedErr ErrRequestFailed
		assert.True(t, errors.As(err, &failedErr), "expected a request failed error but got: %v", err)
		assert.True(t, strings.HasPrefix(err.Error(), "request processing failed: "), "unexpected message: %s", err)
	})
}

func TestClientConcurrentRefresh(t *testing.T) {
	const n = 5

	run := func(t *testing.T, perRequest bool) (*testBackend, testSetup) {
		backend, server := newTestBackend(t, "T1")
		setup := newTestClient(t, server.URL, "T1", perRequest)

		backend.expireTokens()
		backend.setBarrier(n)

		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = setup.client.do(setup.background, http.MethodGet, "/products", api.RequestOptions{})
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			assert.Nil(t, err)
		}
		return backend, setup
	}

	t.Run("should share a single refresh between concurrent requests", func(t *testing.T) {
		backend, setup := run(t, false)

		assert.Equal(t, 1, backend.refreshCount())
		assert.Equal(t, n, setup.events.count(EventRetry))

		token, err := setup.session.Tokens.AccessToken(setup.background)
		assert.Nil(t, err)
		assert.Equal(t, "T2", token)
	})

	t.Run("should refresh for every concurrent request when refreshing per request", func(t *testing.T) {
		backend, setup := run(t, true)

		assert.Equal(t, n, backend.refreshCount())
		assert.Equal(t, n, setup.events.count(EventRefresh))
	})
}

func TestClientCancellation(t *testing.T) {
	t.Run("should return the context error when cancelled while refreshing", func(t *testing.T) {
		backend, server := newTestBackend(t, "T1")
		setup := newTestClient(t, server.URL, "T0", false)

		ctx, cancel := context.WithCancel(context.Background())
		backend.handlers["/products"] = func(w http.ResponseWriter, r *http.Request) {
			cancel()
			writeError(w, http.StatusUnauthorized, http.StatusUnauthorized, "Unauthorized")
		}

		_, err := setup.client.do(ctx, http.MethodGet, "/products", api.RequestOptions{})

		assert.True(t, errors.Is(err, context.Canceled), "expected a cancellation error but got: %v", err)
		assert.Equal(t, 0, len(setup.redirects.Routes()))
	})
}
