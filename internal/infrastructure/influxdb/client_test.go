package influxdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/zenoss-client/internal/infrastructure/config"
)

// fakeInflux answers /ping and records line protocol posted to /api/v2/write.
type fakeInflux struct {
	*httptest.Server

	mu     sync.Mutex
	bodies []string
	query  string
	status int
}

func newFakeInflux(t *testing.T) *fakeInflux {
	t.Helper()
	f := &fakeInflux{status: http.StatusNoContent}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ping":
			w.WriteHeader(http.StatusNoContent)
		case "/api/v2/write":
			body, _ := io.ReadAll(r.Body)
			f.mu.Lock()
			f.bodies = append(f.bodies, string(body))
			f.query = r.URL.RawQuery
			status := f.status
			f.mu.Unlock()
			if status != http.StatusNoContent {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"code":"invalid","message":"bucket not found"}`))
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeInflux) written() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.bodies, "\n")
}

// waitFor polls until the fake has received a body containing want.
func (f *fakeInflux) waitFor(t *testing.T, want string) string {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if got := f.written(); strings.Contains(got, want) {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("server never received %q; got %q", want, f.written())
	return ""
}

func testConfig(url string) config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           url,
		Token:         "test-token",
		Org:           "noc",
		Bucket:        "zenoss",
		BatchSize:     100,
		FlushInterval: 1,
	}
}

// =============================================================================
// Connection Tests
// =============================================================================

func TestConnectDisabled(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:8086")
	cfg.Enabled = false

	if _, err := Connect(context.Background(), cfg); !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnectUnreachable(t *testing.T) {
	if _, err := Connect(context.Background(), testConfig("http://127.0.0.1:59999")); !errors.Is(err, ErrUnreachable) {
		t.Errorf("Connect() error = %v, want ErrUnreachable", err)
	}
}

func TestConnectAndHealthCheck(t *testing.T) {
	srv := newFakeInflux(t)

	cfg := testConfig(srv.URL)
	cfg.BatchSize = -1
	cfg.FlushInterval = 0

	client, err := Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if n := client.Failures(); n != 0 {
		t.Errorf("Failures() = %d after Connect()", n)
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestHealthCheckAfterClose(t *testing.T) {
	srv := newFakeInflux(t)
	client, err := Connect(context.Background(), testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	client.Close()

	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("HealthCheck() error = %v, want ErrClosed", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	// Writes and flushes after close are dropped quietly.
	client.WriteDeviceCount(3, time.Now())
	client.Flush()
}

func TestCloseNil(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
}

// =============================================================================
// Write Tests
// =============================================================================

func TestWritesReachServer(t *testing.T) {
	srv := newFakeInflux(t)
	client, err := Connect(context.Background(), testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	at := time.Unix(1700000000, 0)
	client.WriteEvent(EventSample{
		EvID:     "0242ac11-0002",
		Device:   "db01",
		Severity: "Critical",
		Count:    3,
		Summary:  "disk full",
		Time:     at,
	})
	client.WriteEventSummary(map[string]int{"Critical": 1}, at)
	client.WriteDeviceCount(42, at)
	client.Close()

	got := srv.waitFor(t, "zenoss_devices")
	for _, want := range []string{
		`zenoss_event,device=db01,severity=Critical count=3i,evid="0242ac11-0002",summary="disk full" 1700000000000000000`,
		`zenoss_events,severity=Critical open=1i 1700000000000000000`,
		`zenoss_devices total=42i 1700000000000000000`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("body missing %q\ngot: %s", want, got)
		}
	}

	srv.mu.Lock()
	query := srv.query
	srv.mu.Unlock()
	if !strings.Contains(query, "bucket=zenoss") || !strings.Contains(query, "org=noc") {
		t.Errorf("write query = %q", query)
	}
}

func TestWriteErrorCallback(t *testing.T) {
	srv := newFakeInflux(t)
	srv.status = http.StatusNotFound

	client, err := Connect(context.Background(), testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	errCh := make(chan error, 4)
	client.SetOnError(func(err error) {
		select {
		case errCh <- err:
		default:
		}
	})

	client.WriteDeviceCount(1, time.Now())
	client.Flush()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrWriteFailed) {
			t.Errorf("callback error = %v, want ErrWriteFailed", err)
		}
		if !strings.Contains(err.Error(), "bucket zenoss") {
			t.Errorf("callback error %q does not name the bucket", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("write error callback never fired")
	}
	if client.Failures() < 1 {
		t.Errorf("Failures() = %d, want at least 1", client.Failures())
	}
}

// =============================================================================
// Point Construction Tests
// =============================================================================

func TestEventPointOptionalTags(t *testing.T) {
	at := time.Unix(10, 0)

	tests := []struct {
		name string
		ev   EventSample
		want string
	}{
		{
			name: "device only",
			ev:   EventSample{EvID: "e1", Device: "db01", Severity: "Warning", Count: 1, Time: at},
			want: `zenoss_event,device=db01,severity=Warning count=1i,evid="e1",summary="" 10000000000`,
		},
		{
			name: "component and class",
			ev: EventSample{
				EvID: "e2", Device: "db01", Component: "eth0", EventClass: "/Net/Link",
				Severity: "Error", Count: 2, Summary: "link down", Time: at,
			},
			want: `zenoss_event,component=eth0,device=db01,event_class=/Net/Link,severity=Error count=2i,evid="e2",summary="link down" 10000000000`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.TrimSpace(write.PointToLineProtocol(eventPoint(tt.ev), time.Nanosecond))
			if got != tt.want {
				t.Errorf("line protocol\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestEventPointDefaultsTime(t *testing.T) {
	before := time.Now()
	p := eventPoint(EventSample{EvID: "e1", Device: "db01", Severity: "Info"})
	if p.Time().Before(before) {
		t.Errorf("Time() = %v, want >= %v", p.Time(), before)
	}
}

func TestSummaryPoints(t *testing.T) {
	points := summaryPoints(map[string]int{"Critical": 2, "Warning": 5}, time.Unix(1, 0))
	if len(points) != 2 {
		t.Fatalf("len = %d, want 2", len(points))
	}
	for _, p := range points {
		if p.Name() != MeasurementSummary {
			t.Errorf("Name() = %q", p.Name())
		}
	}
	if len(summaryPoints(nil, time.Now())) != 0 {
		t.Error("nil counts produced points")
	}
}
