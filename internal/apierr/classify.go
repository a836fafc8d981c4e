package apierr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
)

// ResponseError is implemented by failures that carry an HTTP response.
type ResponseError interface {
	error
	StatusCode() int
	ResponseData() any
}

// statusKinds is the fixed status → kind table. Anything absent is unknown.
var statusKinds = map[int]Kind{
	400: KindValidation,
	401: KindAuth,
	403: KindAuth,
	404: KindNotFound,
	500: KindServer,
	502: KindServer,
	503: KindServer,
}

// Classify maps any failure to exactly one normalized *Error. It never
// panics and returns nil only for a nil err. Classifying the same value twice
// yields equal results.
func Classify(err error) (out *Error) {
	if err == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			out = &Error{Kind: KindUnknown, Message: FallbackMessage}
		}
	}()

	var already *Error
	if errors.As(err, &already) {
		cp := *already
		return &cp
	}

	var re ResponseError
	if errors.As(err, &re) {
		status := re.StatusCode()
		kind, ok := statusKinds[status]
		if !ok {
			kind = KindUnknown
		}
		data := re.ResponseData()
		return &Error{
			Kind:       kind,
			Message:    pickMessage(data, re.Error()),
			StatusCode: status,
			Data:       data,
		}
	}

	if isTimeout(err) {
		return &Error{Kind: KindNetwork, Message: TimeoutMessage, StatusCode: 408}
	}

	if isNetworkFailure(err) {
		return &Error{Kind: KindNetwork, Message: NetworkMessage}
	}

	return &Error{Kind: KindUnknown, Message: pickMessage(nil, err.Error())}
}

// isNetworkFailure matches failures where no response was ever received:
// DNS, refused or reset connections, TLS handshakes, truncated bodies.
func isNetworkFailure(err error) bool {
	var ue *url.Error
	if errors.As(err, &ue) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range networkMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

var networkMarkers = []string{
	"network error",
	"failed to fetch",
	"connection refused",
	"connection reset",
	"no such host",
}

func isTimeout(err error) bool {
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	// Last resort for foreign errors that only carry the word in their text.
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// pickMessage applies the precedence body.message → body.error → exception → fallback.
func pickMessage(data any, errMsg string) string {
	if body, ok := data.(map[string]any); ok {
		if msg := stringField(body, "message"); msg != "" {
			return msg
		}
		if msg := stringField(body, "error"); msg != "" {
			return msg
		}
	}
	if errMsg != "" {
		return errMsg
	}
	return FallbackMessage
}

func stringField(body map[string]any, key string) string {
	switch v := body[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case map[string]any:
		// {"error": {"message": "..."}}
		if msg, ok := v["message"].(string); ok {
			return msg
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}
