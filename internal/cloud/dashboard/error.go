package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/stockroom/admin-cli/internal/utils/api"
)

var errMissingAccessToken = errors.New("response did not include an access token")

// ServerError is a dashboard server error
type ServerError struct {
	HTTPStatus int    `json:"-"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Kind       string `json:"error"`
}

func (se ServerError) Error() string {
	if se.Message == "" {
		return se.Kind
	}
	return se.Message
}

// InvalidCredentials returns true if the server rejected the request's credentials.
// Both the response status and the payload's status code must report 401.
func (se ServerError) InvalidCredentials() bool {
	return se.HTTPStatus == http.StatusUnauthorized && se.StatusCode == http.StatusUnauthorized
}

// parseResponseError attempts to read and unmarshal a server error
// from the provided *http.Response
func parseResponseError(res *http.Response) error {
	if !api.IsJSON(res.Header) {
		return ServerError{HTTPStatus: res.StatusCode, Message: res.Status}
	}

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(res.Body); err != nil {
		return ErrRequestFailed{err}
	}

	payload := buf.String()
	if payload == "" {
		return ServerError{HTTPStatus: res.StatusCode, Message: res.Status}
	}

	var serverError ServerError
	if err := json.NewDecoder(buf).Decode(&serverError); err != nil {
		serverError.Message = payload
	}
	serverError.HTTPStatus = res.StatusCode
	return serverError
}

// ErrLoginRequired is returned when the session cannot be used or recovered
type ErrLoginRequired struct {
	Cause error
}

func (err ErrLoginRequired) Error() string {
	if err.Cause == nil {
		return "no active session found"
	}
	return fmt.Sprintf("session expired: %s", err.Cause)
}

// Unwrap returns the refresh failure, if any
func (err ErrLoginRequired) Unwrap() error { return err.Cause }

// SuggestedCommands returns the commands to recover the session
func (err ErrLoginRequired) SuggestedCommands() []string {
	return []string{"admin-cli login"}
}

// DisableUsage disables usage output for session failures
func (err ErrLoginRequired) DisableUsage() struct{} { return struct{}{} }

// ErrRequestFailed wraps a failure to process a request or its response
type ErrRequestFailed struct {
	Err error
}

func (err ErrRequestFailed) Error() string {
	return "request processing failed: " + err.Err.Error()
}

func (err ErrRequestFailed) Unwrap() error { return err.Err }
