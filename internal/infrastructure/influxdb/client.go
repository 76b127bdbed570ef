package influxdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nerrad567/zenoss-client/internal/infrastructure/config"
)

// Errors returned by the client. Check with errors.Is.
var (
	ErrDisabled    = errors.New("influxdb: disabled in configuration")
	ErrUnreachable = errors.New("influxdb: server unreachable")
	ErrClosed      = errors.New("influxdb: client closed")

	// ErrWriteFailed wraps batch failures passed to the SetOnError callback.
	ErrWriteFailed = errors.New("influxdb: write failed")
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second

	defaultBatchSize     = 100
	defaultFlushInterval = 10 * time.Second
)

// Client records relay measurements in InfluxDB.
//
// Points are buffered by the non-blocking write API and sent in batches.
// A failed batch never reaches the caller that wrote it; it is counted and
// handed to the SetOnError callback.
//
// Thread Safety: All methods are safe for concurrent use.
type Client struct {
	influx   influxdb2.Client
	writeAPI api.WriteAPI
	bucket   string

	closed   atomic.Bool
	failures atomic.Int64

	onErrorMu sync.RWMutex
	onError   func(err error)
}

// Connect pings the server and opens a write API for cfg.Org and cfg.Bucket.
//
// Parameters:
//   - ctx: Bounds the initial ping together with a 10 second cap
//   - cfg: influxdb section of config.yaml
//
// Returns:
//   - *Client: Ready for writes
//   - error: ErrDisabled when cfg.Enabled is false, ErrUnreachable when the
//     ping fails or the server reports itself unhealthy
func Connect(ctx context.Context, cfg config.InfluxDBConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	batch := uint(defaultBatchSize)
	if cfg.BatchSize > 0 {
		batch = uint(cfg.BatchSize)
	}
	flush := defaultFlushInterval
	if cfg.FlushInterval > 0 {
		flush = time.Duration(cfg.FlushInterval) * time.Second
	}

	opts := influxdb2.DefaultOptions().
		SetBatchSize(batch).
		SetFlushInterval(uint(flush.Milliseconds())) //nolint:gosec // positive by construction
	influx := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	ok, err := influx.Ping(pingCtx)
	switch {
	case err != nil:
		influx.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreachable, cfg.URL, err)
	case !ok:
		influx.Close()
		return nil, fmt.Errorf("%w: %s reports unhealthy", ErrUnreachable, cfg.URL)
	}

	c := &Client{
		influx:   influx,
		writeAPI: influx.WriteAPI(cfg.Org, cfg.Bucket),
		bucket:   cfg.Bucket,
	}
	go c.drainErrors()

	return c, nil
}

// drainErrors counts batch failures until the write API closes its channel.
func (c *Client) drainErrors() {
	for err := range c.writeAPI.Errors() {
		c.failures.Add(1)

		c.onErrorMu.RLock()
		fn := c.onError
		c.onErrorMu.RUnlock()
		if fn != nil {
			fn(fmt.Errorf("%w: bucket %s: %w", ErrWriteFailed, c.bucket, err))
		}
	}
}

// SetOnError sets the callback for failed batches.
func (c *Client) SetOnError(fn func(err error)) {
	c.onErrorMu.Lock()
	c.onError = fn
	c.onErrorMu.Unlock()
}

// Failures returns the number of batches that failed so far.
func (c *Client) Failures() int64 {
	return c.failures.Load()
}

// HealthCheck pings the server. It reports ErrClosed after Close.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	ok, err := c.influx.Ping(pingCtx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	if !ok {
		return fmt.Errorf("%w: server reports unhealthy", ErrUnreachable)
	}
	return nil
}

// Flush blocks until buffered points are sent. No-op after Close.
func (c *Client) Flush() {
	if c.closed.Load() {
		return
	}
	c.writeAPI.Flush()
}

// Close flushes pending points and releases the client. Safe on a nil
// client and safe to call twice.
func (c *Client) Close() error {
	if c == nil || c.influx == nil || !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.writeAPI.Flush()
	c.influx.Close()
	return nil
}
