package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/email-recipients/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/email-recipients/{id}", "404"))

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/email-recipients/"+id, nil))
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/email-recipients/{id}", "404"))
	assert.Equal(t, 3.0, after-before)
	assert.Equal(t, 0.0, testutil.ToFloat64(activeConnections))
}

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(notificationsSent.WithLabelValues("email", "sent"))
	RecordNotification("email", "sent")
	assert.Equal(t, 1.0, testutil.ToFloat64(notificationsSent.WithLabelValues("email", "sent"))-before)

	before = testutil.ToFloat64(recipientMutations.WithLabelValues("delete", "success"))
	RecordRecipientMutation("delete", "success")
	assert.Equal(t, 1.0, testutil.ToFloat64(recipientMutations.WithLabelValues("delete", "success"))-before)
}
