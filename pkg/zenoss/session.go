package zenoss

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// AuthMethod selects how a Session authenticates its requests.
type AuthMethod string

// Supported authentication methods.
const (
	// AuthCookie posts the credentials to the cookie login form once and
	// sends the session cookie with every later request.
	AuthCookie AuthMethod = "cookie"

	// AuthBasic sends an Authorization header with every request.
	// Bad credentials are only noticed on the first router call.
	AuthBasic AuthMethod = "basic"
)

// Session constants.
const (
	// DefaultMountPath is the Zope mount point of the router API.
	DefaultMountPath = "zport"

	// loginPath is the cookie login endpoint below the mount point.
	loginPath = "acl_users/cookieAuthHelper/login"

	// loginFormMarker is the name of the login form's account input.
	// Its presence in a reply means the request was not authenticated.
	loginFormMarker = "__ac_name"

	// maxLoginBodySize bounds how much of the login reply is inspected.
	maxLoginBodySize = 1 << 20

	// tlsMinVersion is the minimum TLS version for HTTPS endpoints.
	tlsMinVersion = tls.VersionTLS12
)

// TLSConfig holds optional TLS material for HTTPS endpoints.
type TLSConfig struct {
	// CertFile and KeyFile form a client certificate. Both or neither.
	CertFile string
	KeyFile  string

	// CAFile is a PEM bundle used instead of the system roots.
	CAFile string

	// InsecureSkipVerify disables server certificate verification.
	InsecureSkipVerify bool
}

// Config describes how to reach and authenticate against a Zenoss server.
type Config struct {
	// URL is the server base URL, e.g. "https://zenoss.example.com:8080".
	URL string

	// MountPath is the API mount point. Default: "zport".
	MountPath string

	Username string
	Password string

	// Auth selects the authentication method. Default: AuthCookie.
	Auth AuthMethod

	// Timeout bounds each HTTP exchange. Zero leaves the transport default.
	Timeout time.Duration

	TLS TLSConfig

	// HTTPClient overrides the HTTP client built from the fields above.
	// A cookie jar is added to a copy of it when AuthCookie is used and
	// the client has none.
	HTTPClient *http.Client
}

// Session holds the endpoint, credentials, authentication state and the
// transaction id counter of one logical connection to a Zenoss server.
//
// Sessions are independent: several may exist in one process.
//
// Thread Safety:
//   - Transaction ids are allocated atomically and the cookie jar is
//     safe for concurrent use, so a Session may be shared.
type Session struct {
	baseURL   string
	mountPath string
	username  string
	password  string
	auth      AuthMethod

	httpClient *http.Client

	// id identifies the session in log output only.
	id string

	// tid is the last transaction id handed out. The first request uses 1.
	tid atomic.Int64

	loggedIn atomic.Bool
}

// NewSession validates cfg and prepares a Session. It performs no network I/O.
//
// Parameters:
//   - cfg: Endpoint, credentials and TLS material
//
// Returns:
//   - *Session: Session ready for Login
//   - error: ErrValidation for bad settings, or a TLS material loading error
func NewSession(cfg Config) (*Session, error) {
	base, err := normaliseBaseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	auth := cfg.Auth
	if auth == "" {
		auth = AuthCookie
	}
	if auth != AuthCookie && auth != AuthBasic {
		return nil, fmt.Errorf("%w: auth method %q (must be %q or %q)", ErrValidation, auth, AuthCookie, AuthBasic)
	}

	mount := strings.Trim(cfg.MountPath, "/")
	if mount == "" {
		mount = DefaultMountPath
	}

	httpClient, err := buildHTTPClient(cfg, auth)
	if err != nil {
		return nil, err
	}

	return &Session{
		baseURL:    base,
		mountPath:  mount,
		username:   cfg.Username,
		password:   cfg.Password,
		auth:       auth,
		httpClient: httpClient,
		id:         uuid.NewString(),
	}, nil
}

// normaliseBaseURL checks the base URL and strips trailing slashes.
func normaliseBaseURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: url is required", ErrValidation)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: parsing url: %w", ErrValidation, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: url scheme must be http or https, got %q", ErrValidation, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: url has no host", ErrValidation)
	}
	return strings.TrimRight(raw, "/"), nil
}

// buildHTTPClient creates the HTTP client used by a session.
func buildHTTPClient(cfg Config, auth AuthMethod) (*http.Client, error) {
	var client http.Client
	if cfg.HTTPClient != nil {
		client = *cfg.HTTPClient
	} else {
		tlsConfig, err := buildTLSConfig(cfg.TLS)
		if err != nil {
			return nil, err
		}
		transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // stdlib default is always *http.Transport
		if tlsConfig != nil {
			transport.TLSClientConfig = tlsConfig
		}
		client.Transport = transport
		client.Timeout = cfg.Timeout
	}

	if auth == AuthCookie && client.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		client.Jar = jar
	}

	return &client, nil
}

// buildTLSConfig loads client certificate and CA material.
// Returns nil when no TLS option is set.
func buildTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	if cfg.CertFile == "" && cfg.KeyFile == "" && cfg.CAFile == "" && !cfg.InsecureSkipVerify {
		return nil, nil //nolint:nilnil // nil config means transport defaults
	}
	if (cfg.CertFile == "") != (cfg.KeyFile == "") {
		return nil, fmt.Errorf("%w: tls cert_file and key_file must be set together", ErrValidation)
	}

	tlsConfig := &tls.Config{
		MinVersion:         tlsMinVersion,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // explicit operator opt-in for self-signed servers
	}

	if cfg.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("loading client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if cfg.CAFile != "" {
		pem, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("reading CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: no certificates found in %s", ErrValidation, cfg.CAFile)
		}
		tlsConfig.RootCAs = pool
	}

	return tlsConfig, nil
}

// Login authenticates the session.
//
// For AuthCookie it posts the credentials to the login form; the returned
// session cookie is kept in the jar. For AuthBasic it does nothing.
//
// Returns:
//   - error: ErrAuthentication if the request fails, the server answers
//     with a non-2xx status, or the login form is served again
func (s *Session) Login(ctx context.Context) error {
	if s.auth == AuthBasic {
		return nil
	}

	form := url.Values{
		"__ac_name":     {s.username},
		"__ac_password": {s.password},
		"submitted":     {"true"},
		"came_from":     {s.baseURL + "/" + s.mountPath + "/dmd"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.LoginURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: building login request: %w", ErrAuthentication, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: login request: %w", ErrAuthentication, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLoginBodySize))
	if err != nil {
		return fmt.Errorf("%w: reading login response: %w", ErrAuthentication, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: login returned HTTP %d", ErrAuthentication, resp.StatusCode)
	}
	if isLoginForm(body) {
		return fmt.Errorf("%w: credentials rejected for user %q", ErrAuthentication, s.username)
	}

	s.loggedIn.Store(true)
	return nil
}

// isLoginForm reports whether a reply body is the login form.
func isLoginForm(body []byte) bool {
	return bytes.Contains(body, []byte(loginFormMarker))
}

// ID returns the session identifier used in log output.
func (s *Session) ID() string {
	return s.id
}

// Username returns the account the session authenticates as.
func (s *Session) Username() string {
	return s.username
}

// Auth returns the session's authentication method.
func (s *Session) Auth() AuthMethod {
	return s.auth
}

// BaseURL returns the server base URL without a trailing slash.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// LoggedIn reports whether a cookie login has succeeded.
// Always false for AuthBasic sessions.
func (s *Session) LoggedIn() bool {
	return s.loggedIn.Load()
}

// LastTID returns the transaction id of the most recent request, 0 if none.
func (s *Session) LastTID() int64 {
	return s.tid.Load()
}

// LoginURL returns the cookie login endpoint.
func (s *Session) LoginURL() string {
	return s.baseURL + "/" + s.mountPath + "/" + loginPath
}

// RouterURL returns the endpoint of a router path segment, e.g.
// "<base>/zport/dmd/device_router" for "device".
func (s *Session) RouterURL(path string) string {
	return s.baseURL + "/" + s.mountPath + "/dmd/" + endpointName(path)
}

// resolveURI turns an InvokeAt target into a full URL. Absolute URLs are
// used as given; anything else is taken relative to the base URL.
func (s *Session) resolveURI(uri string) string {
	if u, err := url.Parse(uri); err == nil && u.IsAbs() {
		return uri
	}
	return s.baseURL + "/" + strings.TrimLeft(uri, "/")
}

// nextTID allocates the transaction id for one request.
func (s *Session) nextTID() int64 {
	return s.tid.Add(1)
}

// authorize adds credentials to a router request.
func (s *Session) authorize(req *http.Request) {
	if s.auth == AuthBasic {
		req.SetBasicAuth(s.username, s.password)
	}
}
