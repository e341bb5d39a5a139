package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveFeed(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	c.ObserveFeed("tle", http.StatusOK, 120*time.Millisecond)
	c.ObserveFeed("tle", http.StatusOK, 80*time.Millisecond)
	c.ObserveFeed("neo", 0, time.Second)

	if got := testutil.ToFloat64(c.FeedRequests.WithLabelValues("tle", "200")); got != 2 {
		t.Errorf("feed_requests_total{tle,200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.FeedRequests.WithLabelValues("neo", "error")); got != 1 {
		t.Errorf("feed_requests_total{neo,error} = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(c.FeedDuration); n != 2 {
		t.Errorf("feed duration series = %d, want 2", n)
	}
}

func TestObservePropagation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	c.ObservePropagation(nil, time.Microsecond)
	c.ObservePropagation(errors.New("bad"), time.Microsecond)
	c.ObservePropagation(nil, time.Microsecond)
	c.ParseFailed()
	c.SetTargets(7)

	if got := testutil.ToFloat64(c.Propagations.WithLabelValues("ok")); got != 2 {
		t.Errorf("propagations_total{ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.Propagations.WithLabelValues("error")); got != 1 {
		t.Errorf("propagations_total{error} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.ParseErrors); got != 1 {
		t.Errorf("tle_parse_errors_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Targets); got != 7 {
		t.Errorf("targets = %v, want 7", got)
	}
}

func TestNewCollectorTwiceReusesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewCollector(reg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}

	a.ParseFailed()
	if got := testutil.ToFloat64(b.ParseErrors); got != 1 {
		t.Errorf("second collector does not share counters: %v", got)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ObserveFeed("tle", 200, time.Second)
	c.ObservePropagation(nil, time.Second)
	c.ParseFailed()
	c.SetTargets(1)
	if c.Handler() == nil {
		t.Error("nil collector should still return a handler")
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatal(err)
	}
	c.SetTargets(3)
	c.ObservePropagation(nil, 5*time.Microsecond)

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	for _, want := range []string{
		"ls_orbits_targets 3",
		`ls_orbits_propagations_total{result="ok"} 1`,
		"ls_orbits_propagation_duration_seconds_count 1",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
