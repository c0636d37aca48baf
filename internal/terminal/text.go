package terminal

import (
	"fmt"
)

const (
	logFieldMessage = "message"
	logFieldErr     = "err"
)

var (
	textMessageFields  = []string{logFieldMessage}
	errorMessageFields = []string{logFieldErr}
)

type textMessage string

func newTextMessage(format string, args ...interface{}) textMessage {
	if len(args) == 0 {
		return textMessage(format)
	}
	return textMessage(fmt.Sprintf(format, args...))
}

func (t textMessage) Message() (string, error) {
	return string(t), nil
}

func (t textMessage) Payload() ([]string, map[string]interface{}, error) {
	return textMessageFields, map[string]interface{}{
		logFieldMessage: t,
	}, nil
}

type errorMessage struct {
	error
}

func (e errorMessage) Message() (string, error) {
	return e.Error(), nil
}

func (e errorMessage) Payload() ([]string, map[string]interface{}, error) {
	return errorMessageFields, map[string]interface{}{
		logFieldErr: e.Error(),
	}, nil
}
