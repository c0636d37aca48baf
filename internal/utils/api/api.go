package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
)

// set of supported api header keys
const (
	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderCookie        = "Cookie"
	HeaderRequestID     = "X-Request-ID"
)

// set of supported api media types
const (
	MediaTypeJSON = "application/json"
)

// RequestOptions are options to configure an *http.Request.
// The body is held as bytes so the request can be replayed unchanged.
type RequestOptions struct {
	Body        []byte
	ContentType string
	Header      http.Header
	Query       url.Values

	// PreventRefresh marks a request that must not trigger a session refresh,
	// either because it has already been retried or because it is part of
	// establishing the session itself
	PreventRefresh bool
}

// JSONRequestOptions returns RequestOptions configured to send the provided payload as JSON
func JSONRequestOptions(payload interface{}) (RequestOptions, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return RequestOptions{}, err
	}
	return RequestOptions{Body: body, ContentType: MediaTypeJSON}, nil
}

// IncludeQuery adds the query values to the request url
func IncludeQuery(req *http.Request, query url.Values) {
	if len(query) == 0 {
		return
	}
	q := req.URL.Query()
	for key, values := range query {
		for _, value := range values {
			q.Add(key, value)
		}
	}
	req.URL.RawQuery = q.Encode()
}

// IsJSON returns true if the header describes a JSON payload
func IsJSON(header http.Header) bool {
	mediaType, _, err := mime.ParseMediaType(header.Get(HeaderContentType))
	return err == nil && mediaType == MediaTypeJSON
}
