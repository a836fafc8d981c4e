package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
)

// Response is the normalized result of a successful call. Data is the
// payload with any {success, code, data, message} envelope removed; callers
// never need to know which shape the server used.
type Response struct {
	Data         any
	FullResponse any
	Message      string
	Status       int
	StatusText   string
	Headers      http.Header

	raw json.RawMessage
}

// Decode unmarshals the unwrapped payload into out. An empty payload leaves
// out untouched.
func (r *Response) Decode(out any) error {
	if r == nil || len(r.raw) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(r.raw, out); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	return nil
}

// HTTPError is returned for any non-2xx status. Data holds the decoded JSON
// body, or the raw text when the server did not declare JSON.
type HTTPError struct {
	Status     int
	StatusText string
	Data       any
	Headers    http.Header
}

func (e *HTTPError) Error() string {
	if e.StatusText != "" {
		return fmt.Sprintf("HTTP %d %s", e.Status, e.StatusText)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// StatusCode implements apierr.ResponseError.
func (e *HTTPError) StatusCode() int { return e.Status }

// ResponseData implements apierr.ResponseError.
func (e *HTTPError) ResponseData() any { return e.Data }

func statusText(resp *http.Response) string {
	if text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); text != "" && text != resp.Status {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "json")
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// decodeBody returns the parsed JSON body, or the text when the body is not
// declared (or not valid) JSON. Empty bodies decode to nil.
func decodeBody(contentType string, body []byte) (any, bool) {
	if !isJSON(contentType) {
		return decodeText(body)
	}
	return decodeAny(body)
}

// decodeAny parses body as JSON whatever the declared content type, falling
// back to text.
func decodeAny(body []byte) (any, bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		return v, true
	}
	return string(body), false
}

func decodeText(body []byte) (any, bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, false
	}
	return string(body), false
}

// newResponse builds the normalized response for a 2xx reply. Success bodies
// are parsed as JSON even when the server omits or mislabels the content type.
func newResponse(resp *http.Response, body []byte) (*Response, error) {
	out := &Response{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Headers:    resp.Header,
	}

	full, parsed := decodeAny(body)
	out.FullResponse = full
	if !parsed {
		out.Data = full
		if s, ok := full.(string); ok {
			// keep text payloads decodable into a *string
			out.raw, _ = json.Marshal(s)
		}
		return out, nil
	}

	out.raw = body
	out.Data = full

	obj, ok := full.(map[string]any)
	if !ok {
		return out, nil
	}
	if msg, ok := obj["message"].(string); ok {
		out.Message = msg
	}
	// {success, code, data, message}: the presence of success marks the envelope
	if _, wrapped := obj["success"]; !wrapped {
		return out, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	out.raw = fields["data"]
	out.Data = obj["data"]
	return out, nil
}
