package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(moderationActions.WithLabelValues("hide_product"))
	RecordModerationAction("hide_product")
	assert.Equal(t, before+1, testutil.ToFloat64(moderationActions.WithLabelValues("hide_product")))

	beforeOffers := testutil.ToFloat64(offersCreated)
	RecordOfferCreated()
	assert.Equal(t, beforeOffers+1, testutil.ToFloat64(offersCreated))

	beforeNew := testutil.ToFloat64(logins.WithLabelValues("true"))
	RecordLogin(true)
	assert.Equal(t, beforeNew+1, testutil.ToFloat64(logins.WithLabelValues("true")))
}

func TestRequestStarted(t *testing.T) {
	done := RequestStarted("POST", "/graphql")
	assert.Equal(t, float64(1), testutil.ToFloat64(httpInFlight))

	done("200")
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("POST", "/graphql", "200")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordRating()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "campus_marketplace_moderation_ratings_total")
}
