package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDashboardMetricsQueryDefaults(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashMetrics" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Fatalf("missing bearer token: %q", r.Header.Get("Authorization"))
		}
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"success":true,"totalRevenue":1200}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	payload, err := client.DashboardMetrics(context.Background(), "tok", MetricsQuery{})
	if err != nil {
		t.Fatalf("dashboard metrics: %v", err)
	}
	if !strings.Contains(gotQuery, "timePeriod=weekly") || !strings.Contains(gotQuery, "pageSize=5") {
		t.Fatalf("defaults not applied: %s", gotQuery)
	}
	if !strings.Contains(string(payload), "totalRevenue") {
		t.Fatalf("payload not passed through: %s", payload)
	}
}

func TestMetricPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/metrics/revenue" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"series":[1,2,3]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	payload, err := client.Metric(context.Background(), "tok", "revenue", "")
	if err != nil {
		t.Fatalf("metric: %v", err)
	}
	if !strings.Contains(string(payload), "series") {
		t.Fatalf("payload not passed through: %s", payload)
	}
}

func TestCachedDashboardWithoutRedisDelegates(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	dashboard := NewCachedDashboard(NewClient(server.URL, time.Second), nil, time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := dashboard.DashboardMetrics(context.Background(), "tok", MetricsQuery{}); err != nil {
			t.Fatalf("dashboard metrics: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("nil redis must pass every call through, got %d calls", calls)
	}
	if err := dashboard.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate without redis: %v", err)
	}
}
