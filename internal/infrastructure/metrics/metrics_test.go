package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveUpload(t *testing.T) {
	doneBefore := testutil.ToFloat64(uploadsTotal.WithLabelValues("done"))
	errBefore := testutil.ToFloat64(uploadsTotal.WithLabelValues("error"))
	bytesBefore := testutil.ToFloat64(uploadBytes)

	ObserveUpload(true, 2048, 150*time.Millisecond)
	ObserveUpload(false, 4096, time.Second)

	assert.Equal(t, doneBefore+1, testutil.ToFloat64(uploadsTotal.WithLabelValues("done")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(uploadsTotal.WithLabelValues("error")))
	assert.Equal(t, bytesBefore+2048, testutil.ToFloat64(uploadBytes), "failed uploads do not count bytes")
}

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/dealers", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dealers", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, testutil.CollectAndCount(httpRequestDuration, "dealerdocs_http_request_duration_seconds"))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
}
