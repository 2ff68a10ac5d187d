package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCommand("load_more", OutcomeSuccess)
	c.RecordCommand("load_more", OutcomeSuccess)
	c.RecordCommand("load_more", OutcomeSkipped)
	c.RecordCacheSize(20)
	c.RecordRequest("listPosts", 200, 150*time.Millisecond)
	c.RecordCircuitOpen("listPosts")
	c.RecordHTTPRequest("/posts/{id}", http.MethodGet, 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.commands.WithLabelValues("load_more", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commands.WithLabelValues("load_more", OutcomeSkipped)))
	assert.Equal(t, 20.0, testutil.ToFloat64(c.cacheSize))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("listPosts", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.circuitRejected.WithLabelValues("listPosts")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("/posts/{id}", http.MethodGet, "404")))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordCacheSize(3)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "postdeck_engine_cached_posts 3")
}

func TestNop(t *testing.T) {
	var (
		_ Recorder       = Nop{}
		_ ClientRecorder = Nop{}
		_ ServerRecorder = Nop{}
	)
	Nop{}.RecordCommand("x", OutcomeFailure)
}
