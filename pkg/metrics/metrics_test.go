package metrics_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"moviecatalog/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/api/movies", "200"))

	metrics.RecordAPIRequest(http.MethodGet, "/api/movies", http.StatusOK, 15*time.Millisecond)

	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/api/movies", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(metrics.DBQueryErrors.WithLabelValues("find", "movies"))

	metrics.RecordDBQuery("find", "movies", time.Now(), nil)
	metrics.RecordDBQuery("find", "movies", time.Now(), errors.New("timeout"))

	after := testutil.ToFloat64(metrics.DBQueryErrors.WithLabelValues("find", "movies"))
	assert.Equal(t, before+1, after)
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(metrics.APIActiveRequests)

	metrics.TrackActiveRequest(true)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.APIActiveRequests))

	metrics.TrackActiveRequest(false)
	assert.Equal(t, before, testutil.ToFloat64(metrics.APIActiveRequests))
}
