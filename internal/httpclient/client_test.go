package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/maturity-client/internal/apierr"
	"github.com/Checker-Finance/maturity-client/internal/navigation"
	"github.com/Checker-Finance/maturity-client/internal/rate"
)

// fakeSession is an in-memory Session with two "scopes" like the real provider.
type fakeSession struct {
	mu         sync.Mutex
	session    string
	persistent string
	clears     int
}

func (f *fakeSession) Token(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session != "" {
		return f.session, nil
	}
	return f.persistent, nil
}

func (f *fakeSession) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session, f.persistent = "", ""
	f.clears++
	return nil
}

func (f *fakeSession) empty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session == "" && f.persistent == ""
}

// captured is what the test server saw.
type captured struct {
	method string
	url    string
	header http.Header
	body   []byte
}

func recordingServer(t *testing.T, status int, contentType, body string) (*httptest.Server, *captured) {
	t.Helper()
	var got captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.url = r.URL.String()
		got.header = r.Header.Clone()
		got.body, _ = io.ReadAll(r.Body)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func newTestClient(srv *httptest.Server, opts ...Option) *Client {
	opts = append([]Option{WithHTTPClient(srv.Client())}, opts...)
	return New(zap.NewNop(), srv.URL+"/api/v1", time.Second, opts...)
}

// ─── Envelope handling ───────────────────────────────────────────────────────

func TestRequest_UnwrapsEnvelope(t *testing.T) {
	srv, got := recordingServer(t, http.StatusOK, "application/json",
		`{"success":true,"code":200,"data":{"id":"abc"},"message":"ok"}`)
	c := newTestClient(srv)

	resp, err := c.Get(context.Background(), "/assessment/result/abc", nil)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/assessment/result/abc", got.url)
	assert.Equal(t, map[string]any{"id": "abc"}, resp.Data)
	assert.Equal(t, "ok", resp.Message)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "OK", resp.StatusText)
	assert.Equal(t, "application/json", resp.Headers.Get("Content-Type"))

	full, ok := resp.FullResponse.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, full["success"])

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "abc", out.ID)
}

func TestRequest_PassesRawPayloadThrough(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusOK, "application/json; charset=utf-8",
		`[{"id":"a1"},{"id":"a2"}]`)
	c := newTestClient(srv)

	resp, err := c.Get(context.Background(), "/assessment/list", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"id": "a1"}, map[string]any{"id": "a2"}}, resp.Data)
	assert.Equal(t, resp.FullResponse, resp.Data)

	var out []struct{ ID string }
	require.NoError(t, resp.Decode(&out))
	assert.Len(t, out, 2)
}

func TestRequest_EnvelopeWithFailedSuccessFlagStillUnwraps(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusOK, "application/json",
		`{"success":false,"code":200,"data":null,"message":"nothing yet"}`)
	c := newTestClient(srv)

	resp, err := c.Get(context.Background(), "/assessment/result/abc", nil)
	require.NoError(t, err)
	assert.Nil(t, resp.Data)
	assert.Equal(t, "nothing yet", resp.Message)
}

func TestRequest_UnwrapsEnvelopeWithoutJSONContentType(t *testing.T) {
	for _, ct := range []string{"", "text/plain"} {
		t.Run("content-type="+ct, func(t *testing.T) {
			srv, _ := recordingServer(t, http.StatusOK, ct,
				`{"success":true,"code":200,"data":[{"id":"starter"}],"message":"ok"}`)

			resp, err := newTestClient(srv).Get(context.Background(), "/billing/plans", nil)
			require.NoError(t, err)
			assert.Equal(t, []any{map[string]any{"id": "starter"}}, resp.Data)
			assert.Equal(t, "ok", resp.Message)

			var out []struct{ ID string }
			require.NoError(t, resp.Decode(&out))
			require.Len(t, out, 1)
			assert.Equal(t, "starter", out[0].ID)
		})
	}
}

func TestRequest_TextAndEmptyBodies(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusOK, "text/plain", "pong")
	resp, err := newTestClient(srv).Get(context.Background(), "/ping", nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.Data)

	var s string
	require.NoError(t, resp.Decode(&s))
	assert.Equal(t, "pong", s)

	srv2, _ := recordingServer(t, http.StatusNoContent, "", "")
	resp, err = newTestClient(srv2).Delete(context.Background(), "/team/members/u1", nil)
	require.NoError(t, err)
	assert.Nil(t, resp.Data)
	assert.Equal(t, http.StatusNoContent, resp.Status)
}

// ─── Body and headers ────────────────────────────────────────────────────────

func TestRequest_NoBodyMeansNoPayload(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			srv, got := recordingServer(t, http.StatusOK, "application/json", `{}`)
			_, err := newTestClient(srv).Request(context.Background(), "/x", RequestOptions{Method: method})
			require.NoError(t, err)
			assert.Equal(t, method, got.method)
			assert.Empty(t, got.body)
			assert.Equal(t, "application/json", got.header.Get("Content-Type"))
		})
	}
}

func TestRequest_JSONBody(t *testing.T) {
	srv, got := recordingServer(t, http.StatusOK, "application/json", `{}`)
	c := newTestClient(srv)

	_, err := c.Post(context.Background(), "/billing/checkout", map[string]string{"plan_id": "pro"}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"plan_id":"pro"}`, string(got.body))
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
	assert.Equal(t, "application/json", got.header.Get("Accept"))
	assert.NotEmpty(t, got.header.Get("X-Request-ID"))

	_, err = c.Patch(context.Background(), "/usecase/u1", json.RawMessage(`{"title":"raw"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"raw"}`, string(got.body))
}

func TestRequest_JSONBodyEncodeError(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusOK, "application/json", `{}`)
	_, err := newTestClient(srv).Post(context.Background(), "/x", map[string]any{"ch": make(chan int)}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode json body")
}

func TestRequest_MultipartBody(t *testing.T) {
	var (
		gotType  string
		gotField string
		gotFile  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotField = r.FormValue("category")
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotFile = hdr.Filename + ":" + string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	body := &Multipart{
		Fields: ParamsOf("category", "operations", "skip", nil),
		Files:  []File{{Field: "file", Filename: "cases.csv", Content: strings.NewReader("title\nrouting")}},
	}
	_, err := newTestClient(srv).Post(context.Background(), "/usecase/import", body, nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotType, "multipart/form-data; boundary="), gotType)
	assert.Equal(t, "operations", gotField)
	assert.Equal(t, "cases.csv:title\nrouting", gotFile)
}

func TestRequest_BearerTokenAndOverrides(t *testing.T) {
	srv, got := recordingServer(t, http.StatusOK, "application/json", `{}`)
	sess := &fakeSession{persistent: "persisted-token"}
	c := newTestClient(srv, WithSession(sess))

	_, err := c.Get(context.Background(), "/auth/me", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer persisted-token", got.header.Get("Authorization"))

	sess.session = "session-token"
	_, err = c.Get(context.Background(), "/auth/me", &RequestOptions{Headers: map[string]string{
		"content-type":    "text/csv",
		"X-Client-Source": "cli",
	}})
	require.NoError(t, err)
	assert.Equal(t, "Bearer session-token", got.header.Get("Authorization"))
	assert.Equal(t, "text/csv", got.header.Get("Content-Type"), "override replaces default")
	assert.Equal(t, "cli", got.header.Get("X-Client-Source"))

	_, err = c.Get(context.Background(), "/terms", &RequestOptions{Headers: map[string]string{"Authorization": ""}})
	require.NoError(t, err)
	assert.Empty(t, got.header.Get("Authorization"), "empty override removes the header")
}

func TestRequest_NoTokenNoAuthorization(t *testing.T) {
	srv, got := recordingServer(t, http.StatusOK, "application/json", `{}`)
	_, err := newTestClient(srv, WithSession(&fakeSession{})).Get(context.Background(), "/terms", nil)
	require.NoError(t, err)
	_, present := got.header["Authorization"]
	assert.False(t, present)
}

// ─── Query string ────────────────────────────────────────────────────────────

func TestRequest_QueryDropsNil(t *testing.T) {
	srv, got := recordingServer(t, http.StatusOK, "application/json", `{}`)
	_, err := newTestClient(srv).Get(context.Background(), "/assessment/list", &RequestOptions{
		Params: ParamsOf("status", "completed", "cursor", nil),
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/assessment/list?status=completed", got.url)
}

// ─── Non-2xx ─────────────────────────────────────────────────────────────────

func TestRequest_HTTPErrorCarriesBody(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusBadRequest, "application/json", `{"error":"email already registered"}`)
	_, err := newTestClient(srv).Post(context.Background(), "/auth/signup", map[string]string{}, nil)

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "Bad Request", he.StatusText)
	assert.Equal(t, map[string]any{"error": "email already registered"}, he.Data)
	assert.True(t, IsHTTPError(err, http.StatusBadRequest))

	ce := apierr.Classify(err)
	assert.Equal(t, apierr.KindValidation, ce.Kind)
	assert.Equal(t, "email already registered", ce.Message)
}

func TestRequest_HTTPErrorTextBody(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusBadGateway, "text/html", "<h1>Bad Gateway</h1>")
	_, err := newTestClient(srv).Get(context.Background(), "/assessment/list", nil)

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "<h1>Bad Gateway</h1>", he.Data)

	ce := apierr.Classify(err)
	assert.Equal(t, apierr.KindServer, ce.Kind)
	assert.Equal(t, "HTTP 502 Bad Gateway", ce.Message)
}

func TestRequest_StatusTable(t *testing.T) {
	tests := []struct {
		status int
		kind   apierr.Kind
	}{
		{400, apierr.KindValidation},
		{401, apierr.KindAuth},
		{403, apierr.KindAuth},
		{404, apierr.KindNotFound},
		{409, apierr.KindUnknown},
		{500, apierr.KindServer},
		{502, apierr.KindServer},
		{503, apierr.KindServer},
		{504, apierr.KindUnknown},
	}
	for _, tt := range tests {
		srv, _ := recordingServer(t, tt.status, "application/json", `{"message":"m"}`)
		_, err := newTestClient(srv).Get(context.Background(), "/x", nil)
		ce := apierr.Classify(err)
		assert.Equal(t, tt.kind, ce.Kind, "status %d", tt.status)
		assert.Equal(t, "m", ce.Message)
	}
}

// ─── Auth failure side effects ───────────────────────────────────────────────

func TestRequest_AuthFailureClearsSessionAndNavigates(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusUnauthorized, "application/json", `{"message":"token expired"}`)

	sess := &fakeSession{session: "s-token", persistent: "p-token"}
	nav := navigation.NewMemory("/dashboard", nil)
	notified := make(chan *apierr.Error, 1)
	c := newTestClient(srv,
		WithSession(sess),
		WithNavigator(nav),
		WithAuthFailureHandler(AuthFailureFunc(func(_ context.Context, err *apierr.Error) {
			notified <- err
		})),
	)

	_, err := c.Get(context.Background(), "/assessment/list", nil)
	require.Error(t, err)

	ce := apierr.Classify(err)
	assert.Equal(t, apierr.KindAuth, ce.Kind)
	assert.Equal(t, "token expired", ce.Message)

	assert.True(t, sess.empty(), "both scopes cleared")
	assert.Equal(t, navigation.SignInRoute, nav.Location())

	select {
	case got := <-notified:
		assert.Equal(t, apierr.KindAuth, got.Kind)
		assert.Equal(t, 401, got.StatusCode)
	case <-time.After(time.Second):
		t.Fatal("auth failure handler was not notified")
	}
}

func TestRequest_AuthFailureOnAuthPageDoesNotNavigate(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusForbidden, "application/json", `{"message":"bad credentials"}`)

	sess := &fakeSession{session: "s-token"}
	nav := navigation.NewMemory("/signin", nil)
	c := newTestClient(srv, WithSession(sess), WithNavigator(nav))

	_, err := c.Post(context.Background(), "/auth/signin", map[string]string{}, nil)
	require.Error(t, err)
	assert.True(t, sess.empty())
	assert.Equal(t, "/signin", nav.Location())
	assert.Empty(t, nav.History())
}

func TestRequest_NonAuthErrorKeepsSession(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusNotFound, "application/json", `{"message":"missing"}`)
	sess := &fakeSession{session: "s-token"}
	nav := navigation.NewMemory("/dashboard", nil)

	_, err := newTestClient(srv, WithSession(sess), WithNavigator(nav)).Get(context.Background(), "/x", nil)
	require.Error(t, err)
	assert.False(t, sess.empty())
	assert.Equal(t, 0, sess.clears)
	assert.Equal(t, "/dashboard", nav.Location())
}

// ─── Timeout race ────────────────────────────────────────────────────────────

func TestRequest_TimeoutRejectsBeforeServerResponds(t *testing.T) {
	release := make(chan struct{})
	var finished atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		select {
		case <-release:
		case <-time.After(5 * time.Second):
		}
		finished.Store(true)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(srv)
	start := time.Now()
	_, err := c.Get(context.Background(), "/assessment/result/abc", &RequestOptions{Timeout: 100 * time.Millisecond})
	elapsed := time.Since(start)

	var te *apierr.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 100*time.Millisecond, te.Limit)
	assert.Less(t, elapsed, 2*time.Second)
	assert.False(t, finished.Load(), "rejected strictly before the handler settled")

	ce := apierr.Classify(err)
	assert.Equal(t, apierr.KindNetwork, ce.Kind)
	assert.Equal(t, 408, ce.StatusCode)
}

func TestRequest_DefaultTimeoutFromClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
	}))
	defer srv.Close()

	c := New(zap.NewNop(), srv.URL, 50*time.Millisecond, WithHTTPClient(srv.Client()))
	_, err := c.Get(context.Background(), "/slow", nil)
	assert.True(t, apierr.IsTimeout(err))
}

func TestNew_DefaultTimeout(t *testing.T) {
	c := New(nil, "http://localhost:8000/api/v1", 0)
	assert.Equal(t, DefaultTimeout, c.timeout)
	assert.Equal(t, "http://localhost:8000/api/v1", c.BaseURL())
}

// ─── Transport failures and cancellation ─────────────────────────────────────

func TestRequest_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(zap.NewNop(), url, time.Second)
	_, err := c.Get(context.Background(), "/x", nil)
	require.Error(t, err)

	var he *HTTPError
	assert.False(t, errors.As(err, &he), "no response object on transport failure")

	ce := apierr.Classify(err)
	assert.Equal(t, apierr.KindNetwork, ce.Kind)
	assert.Equal(t, 0, ce.StatusCode)
}

func TestRequest_CallerCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := newTestClient(srv).Get(ctx, "/x", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

// ─── Rate limiting ───────────────────────────────────────────────────────────

func TestRequest_RateLimitHonoursContext(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusOK, "application/json", `{}`)
	mgr := rate.NewManager(rate.Config{RequestsPerSecond: 0.001, Burst: 1})
	c := newTestClient(srv, WithRateLimit(mgr))

	_, err := c.Get(context.Background(), "/billing/plans", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_, err = c.Get(ctx, "/billing/plans", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")

	// other route groups have their own bucket
	_, err = c.Get(context.Background(), "/team/members", nil)
	require.NoError(t, err)
}
