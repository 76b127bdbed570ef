package zenoss

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// maxResponseSize bounds a router reply. Device listings of large sites run
// to tens of megabytes.
const maxResponseSize = 64 << 20

// contentType is sent with every router request.
const contentType = "application/json; charset=utf-8"

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Observer is notified after every router call, successful or not.
type Observer interface {
	ObserveCall(router, method string, elapsed time.Duration, err error)
}

// Client issues router calls over an authenticated Session.
//
// Each call is a single HTTP POST; failures are returned, never retried.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	session *Session

	logger   Logger
	observer Observer
	mu       sync.RWMutex
}

// NewClient returns a Client using an existing session.
// The session must already be logged in when it uses AuthCookie.
func NewClient(session *Session) *Client {
	return &Client{session: session}
}

// Connect creates a session from cfg, logs in and returns a Client.
//
// Parameters:
//   - ctx: Context for the login request
//   - cfg: Endpoint, credentials and TLS material
//
// Returns:
//   - *Client: Client ready for router calls
//   - error: ErrValidation for bad settings, ErrAuthentication if login fails
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	session, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}
	if err := session.Login(ctx); err != nil {
		return nil, err
	}
	return NewClient(session), nil
}

// Session returns the session the client issues calls over.
func (c *Client) Session() *Session {
	return c.session
}

// SetLogger sets a logger for request tracing.
// If not set, nothing is logged.
func (c *Client) SetLogger(logger Logger) {
	c.mu.Lock()
	c.logger = logger
	c.mu.Unlock()
}

// SetObserver sets an observer notified after every call.
func (c *Client) SetObserver(observer Observer) {
	c.mu.Lock()
	c.observer = observer
	c.mu.Unlock()
}

func (c *Client) getLogger() Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

func (c *Client) getObserver() Observer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.observer
}

// Invoke performs one router call and returns the result field of the reply.
//
// The request is posted to the router's endpoint below the mount point,
// e.g. "<base>/zport/dmd/device_router" for DeviceRouter.
//
// Parameters:
//   - ctx: Context for cancellation
//   - router: Router name, e.g. DeviceRouter
//   - method: Remote method name, e.g. "getDevices"
//   - params: Positional arguments, sent as the envelope's data list
//
// Returns:
//   - json.RawMessage: The undecoded result field
//   - error: ErrUnknownRouter (nothing sent), ErrTransport, ErrAuthentication
//     or ErrRemote
func (c *Client) Invoke(ctx context.Context, router, method string, params ...any) (json.RawMessage, error) {
	path, ok := RouterPath(router)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRouter, router)
	}
	return c.do(ctx, c.session.RouterURL(path), router, method, params)
}

// InvokeAt performs a router call against a caller-chosen endpoint.
//
// uri is either absolute or a path relative to the base URL. It serves
// calls made in an object's context, such as a device's own device_router.
// The router name must still be known; it is sent as the envelope action.
func (c *Client) InvokeAt(ctx context.Context, uri, router, method string, params ...any) (json.RawMessage, error) {
	if _, ok := RouterPath(router); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRouter, router)
	}
	return c.do(ctx, c.session.resolveURI(uri), router, method, params)
}

// do posts one envelope and extracts the result.
func (c *Client) do(ctx context.Context, endpoint, router, method string, params []any) (result json.RawMessage, err error) {
	tid := c.session.nextTID()
	start := time.Now()

	defer func() {
		if observer := c.getObserver(); observer != nil {
			observer.ObserveCall(router, method, time.Since(start), err)
		}
		if logger := c.getLogger(); logger != nil && err != nil {
			logger.Warn("router call failed",
				"session", c.session.ID(),
				"router", router,
				"method", method,
				"tid", tid,
				"error", err,
			)
		}
	}()

	body, err := encodeRequest(newRequest(router, method, tid, params))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if logger := c.getLogger(); logger != nil {
		logger.Debug("router request",
			"session", c.session.ID(),
			"router", router,
			"method", method,
			"tid", tid,
			"url", endpoint,
			"bytes", len(body),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: building %s.%s request: %w", ErrTransport, router, method, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	c.session.authorize(req)

	resp, err := c.session.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s.%s: %w", ErrTransport, router, method, err)
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s.%s reply: %w", ErrTransport, router, method, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        endpoint,
			Body:       body,
		}
	}

	envelope, err := decodeResponse(reply)
	if err != nil {
		if isLoginForm(reply) {
			return nil, fmt.Errorf("%w: %s.%s answered with the login form", ErrAuthentication, router, method)
		}
		return nil, fmt.Errorf("%w: decoding %s.%s reply: %w", ErrTransport, router, method, err)
	}

	if envelope.Type == exceptionType {
		return nil, &RemoteError{Router: router, Method: method, Message: envelope.Message}
	}

	return envelope.Result, nil
}

// call performs a router call and decodes the result into out.
func (c *Client) call(ctx context.Context, router, method string, out any, params ...any) error {
	raw, err := c.Invoke(ctx, router, method, params...)
	if err != nil {
		return err
	}
	return decodeResult(raw, router, method, out)
}

// decodeResult unmarshals a result into out. A reply without a result is
// ErrTransport when out expects one.
func decodeResult(raw json.RawMessage, router, method string, out any) error {
	if out == nil {
		return nil
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return fmt.Errorf("%w: %s.%s reply has no result", ErrTransport, router, method)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decoding %s.%s result: %w", ErrTransport, router, method, err)
	}
	return nil
}

// Result is the reply of a mutating call.
type Result struct {
	Success bool            `json:"success"`
	Msg     string          `json:"msg,omitempty"`
	NewJobs json.RawMessage `json:"new_jobs,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// mutate performs a mutating call. A reply with success false is ErrRemote.
func (c *Client) mutate(ctx context.Context, router, method string, params ...any) (*Result, error) {
	var res Result
	if err := c.call(ctx, router, method, &res, params...); err != nil {
		return nil, err
	}
	if !res.Success {
		return &res, &RemoteError{Router: router, Method: method, Message: res.Msg}
	}
	return &res, nil
}

// IsAuthError reports whether err means the session must log in again.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}
