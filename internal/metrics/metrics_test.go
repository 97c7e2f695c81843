package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpstreamObserver(t *testing.T) {
	before := testutil.ToFloat64(upstreamRequests.WithLabelValues("GET", "tickets", "network"))
	Upstream{}.ObserveCall("GET", "tickets", "network", 20*time.Millisecond)
	after := testutil.ToFloat64(upstreamRequests.WithLabelValues("GET", "tickets", "network"))
	assert.Equal(t, before+1, after)
}

func TestPagesObserver(t *testing.T) {
	before := testutil.ToFloat64(pageFallbacks.WithLabelValues("contacts"))
	Pages{}.Fallback("contacts")
	assert.Equal(t, before+1, testutil.ToFloat64(pageFallbacks.WithLabelValues("contacts")))

	before = testutil.ToFloat64(staleResponses.WithLabelValues("tickets"))
	Pages{}.Stale("tickets")
	assert.Equal(t, before+1, testutil.ToFloat64(staleResponses.WithLabelValues("tickets")))
}

func TestStoreOp(t *testing.T) {
	before := testutil.ToFloat64(storeOperations.WithLabelValues("memory", "get", "error"))
	StoreOp("memory", "get", errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(storeOperations.WithLabelValues("memory", "get", "error")))
}

func TestUIChange(t *testing.T) {
	before := testutil.ToFloat64(uiChanges.WithLabelValues("tickets"))
	UIChange("tickets")
	UIChange("tickets")
	assert.Equal(t, before+2, testutil.ToFloat64(uiChanges.WithLabelValues("tickets")))
}

func TestHandler(t *testing.T) {
	SetActiveSessions(3)
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/metrics", nil)
	require.NoError(t, err)
	Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "console_active_sessions 3")
}
