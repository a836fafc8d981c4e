package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("assessment", "GET", "200"))
	ObserveRequest("assessment", "GET", 200, time.Now())
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("assessment", "GET", "200"))
	assert.Equal(t, before+1, after)

	before = testutil.ToFloat64(APIRequestsTotal.WithLabelValues("billing", "POST", "none"))
	ObserveRequest("billing", "POST", 0, time.Now())
	assert.Equal(t, before+1, testutil.ToFloat64(APIRequestsTotal.WithLabelValues("billing", "POST", "none")))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(APITimeouts.WithLabelValues("assessment"))
	IncTimeout("assessment")
	assert.Equal(t, before+1, testutil.ToFloat64(APITimeouts.WithLabelValues("assessment")))

	before = testutil.ToFloat64(AuthFailures)
	IncAuthFailure()
	assert.Equal(t, before+1, testutil.ToFloat64(AuthFailures))

	before = testutil.ToFloat64(SessionEvents.WithLabelValues("signed_out", "error"))
	IncSessionEvent("signed_out", errors.New("nats down"))
	assert.Equal(t, before+1, testutil.ToFloat64(SessionEvents.WithLabelValues("signed_out", "error")))
}

func TestIncMockRequest(t *testing.T) {
	before := testutil.ToFloat64(MockRequestsTotal.WithLabelValues("/api/v1/terms", "200"))
	IncMockRequest("/api/v1/terms", 200)
	assert.Equal(t, before+1, testutil.ToFloat64(MockRequestsTotal.WithLabelValues("/api/v1/terms", "200")))
}
