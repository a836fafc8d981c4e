package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// Param is one query-string entry. A nil Value (or nil pointer) is dropped.
type Param struct {
	Key   string
	Value any
}

// Params keeps query entries in the order they were given.
type Params []Param

// ParamsOf builds Params from alternating keys and values. A trailing key
// without a value is ignored.
func ParamsOf(kv ...any) Params {
	out := make(Params, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		out = append(out, Param{Key: key, Value: kv[i+1]})
	}
	return out
}

// OptString maps "" to nil so optional filters are left out of the query.
func OptString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Encode renders the params as a query string, skipping nil values.
func (p Params) Encode() string {
	var sb strings.Builder
	for _, param := range p {
		val, ok := paramValue(param.Value)
		if !ok {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(param.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(val))
	}
	return sb.String()
}

func paramValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	switch val := rv.Interface().(type) {
	case string:
		return val, true
	case time.Time:
		return val.UTC().Format(time.RFC3339), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return fmt.Sprint(val), true
	}
}

// File is one file part of a multipart upload.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// Multipart is a form-data body. The encoder picks the boundary, so callers
// must not set Content-Type themselves.
type Multipart struct {
	Fields Params
	Files  []File
}

func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, f := range m.Fields {
		val, ok := paramValue(f.Value)
		if !ok {
			continue
		}
		if err := w.WriteField(f.Key, val); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		var (
			part io.Writer
			err  error
		)
		if f.ContentType != "" {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
			h.Set("Content-Type", f.ContentType)
			part, err = w.CreatePart(h)
		} else {
			part, err = w.CreateFormFile(f.Field, f.Filename)
		}
		if err != nil {
			return nil, "", err
		}
		if f.Content != nil {
			if _, err := io.Copy(part, f.Content); err != nil {
				return nil, "", fmt.Errorf("copy %s: %w", f.Filename, err)
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// encodeBody serializes body and returns the content type it implies.
// A nil body yields no payload at all.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, jsonContentType, nil
	case *Multipart:
		if b == nil {
			return nil, jsonContentType, nil
		}
		buf, ct, err := b.encode()
		if err != nil {
			return nil, "", fmt.Errorf("encode multipart body: %w", err)
		}
		return buf, ct, nil
	case json.RawMessage:
		return bytes.NewReader(b), jsonContentType, nil
	case []byte:
		return bytes.NewReader(b), jsonContentType, nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("encode json body: %w", err)
		}
		return bytes.NewReader(data), jsonContentType, nil
	}
}

const jsonContentType = "application/json"

// buildURL joins a server-relative path and query onto the base URL.
func buildURL(base, path string, params Params) string {
	u := strings.TrimRight(base, "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u += path

	if q := params.Encode(); q != "" {
		if strings.Contains(u, "?") {
			u += "&" + q
		} else {
			u += "?" + q
		}
	}
	return u
}

// mergeHeaders applies per-call overrides on top of the defaults. Override
// keys are canonicalised, so "content-type" replaces "Content-Type". An
// empty value removes the header.
func mergeHeaders(dst http.Header, overrides map[string]string) {
	for k, v := range overrides {
		if v == "" {
			dst.Del(k)
			continue
		}
		dst.Set(k, v)
	}
}
