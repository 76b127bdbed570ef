// Package zenosstest provides an in-process fake of the Zenoss router API
// for tests.
//
// The server implements the cookie login form, HTTP Basic authentication
// and the router endpoints. Router methods are answered by handlers
// registered per router and method; every router request is recorded.
//
//	srv := zenosstest.New()
//	defer srv.Close()
//	srv.HandleResult(zenoss.DeviceRouter, "getDevices", map[string]any{
//	    "success": true,
//	    "devices": []any{},
//	})
package zenosstest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Default credentials accepted by a new server.
const (
	DefaultUsername = "admin"
	DefaultPassword = "zenoss"
)

// Cookie set by a successful login.
const (
	SessionCookie = "__ac"
	sessionToken  = "zenosstest-session"
)

// LoginForm is served for unauthenticated cookie requests and rejected logins.
const LoginForm = `<html><body><form action="login" method="post">
<input type="text" name="__ac_name" /><input type="password" name="__ac_password" />
</form></body></html>`

// HandlerFunc answers one router method. data holds the envelope's data
// list undecoded. A returned error is sent as an exception reply.
type HandlerFunc func(data []json.RawMessage) (any, error)

// Echo answers with the data list it received.
func Echo(data []json.RawMessage) (any, error) {
	return data, nil
}

// Call is one recorded router request.
type Call struct {
	Path        string
	ContentType string
	Action      string
	Method      string
	Type        string
	TID         int64
	Data        []json.RawMessage
	Body        []byte
}

// wireRequest is one envelope as received.
type wireRequest struct {
	Action string            `json:"action"`
	Method string            `json:"method"`
	Data   []json.RawMessage `json:"data"`
	Type   string            `json:"type"`
	TID    int64             `json:"tid"`
}

// Server is a fake Zenoss server.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	username  string
	password  string
	basic     bool
	loginForm bool
	status    int
	handlers  map[string]HandlerFunc
	calls     []Call
	logins    int
}

// Option configures a Server.
type Option func(*Server)

// WithCredentials sets the accepted username and password.
func WithCredentials(username, password string) Option {
	return func(s *Server) {
		s.username = username
		s.password = password
	}
}

// WithBasicAuth makes router requests require HTTP Basic credentials
// instead of the session cookie.
func WithBasicAuth() Option {
	return func(s *Server) {
		s.basic = true
	}
}

// New starts a fake server.
func New(opts ...Option) *Server {
	s := &Server{
		username: DefaultUsername,
		password: DefaultPassword,
		handlers: make(map[string]HandlerFunc),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Post("/zport/acl_users/cookieAuthHelper/login", s.handleLogin)
	r.Get("/zport/dmd", s.handleLanding)
	r.Post("/zport/dmd/*", s.handleRouter)

	s.Server = httptest.NewServer(r)
	return s
}

// Handle registers the handler of a router method.
func (s *Server) Handle(router, method string, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[router+"."+method] = fn
}

// HandleResult registers a router method that always answers with result.
func (s *Server) HandleResult(router, method string, result any) {
	s.Handle(router, method, func([]json.RawMessage) (any, error) {
		return result, nil
	})
}

// ServeLoginForm makes every request, logins included, answer with the login form.
func (s *Server) ServeLoginForm(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginForm = on
}

// SetStatus forces router replies to use an HTTP status. Zero restores normal replies.
func (s *Server) SetStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
}

// Calls returns the recorded router requests in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many router requests arrived.
func (s *Server) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Logins returns how many login attempts arrived.
func (s *Server) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.logins++
	loginForm := s.loginForm
	username, password := s.username, s.password
	s.mu.Unlock()

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if loginForm || r.PostForm.Get("__ac_name") != username || r.PostForm.Get("__ac_password") != password {
		writeHTML(w, LoginForm)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: sessionToken, Path: "/"})
	http.Redirect(w, r, r.PostForm.Get("came_from"), http.StatusFound)
}

func (s *Server) handleLanding(w http.ResponseWriter, _ *http.Request) {
	writeHTML(w, "<html><body>dashboard</body></html>")
}

func (s *Server) handleRouter(w http.ResponseWriter, r *http.Request) {
	body, reqs, decodeErr := readEnvelopes(r)

	call := Call{
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	}
	if len(reqs) > 0 {
		call.Action = reqs[0].Action
		call.Method = reqs[0].Method
		call.Type = reqs[0].Type
		call.TID = reqs[0].TID
		call.Data = reqs[0].Data
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	status := s.status
	loginForm := s.loginForm
	handler := s.handlers[call.Action+"."+call.Method]
	s.mu.Unlock()

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !strings.HasSuffix(chi.URLParam(r, "*"), "_router") {
		http.NotFound(w, r)
		return
	}
	if loginForm {
		writeHTML(w, LoginForm)
		return
	}
	if !s.authorised(r) {
		if s.basic {
			w.Header().Set("WWW-Authenticate", `Basic realm="Zope"`)
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		writeHTML(w, LoginForm)
		return
	}
	if decodeErr != nil || len(reqs) == 0 {
		http.Error(w, "bad envelope", http.StatusBadRequest)
		return
	}

	reply := map[string]any{
		"action": call.Action,
		"method": call.Method,
		"tid":    call.TID,
		"type":   "rpc",
	}
	if handler == nil {
		reply["type"] = "exception"
		reply["message"] = fmt.Sprintf("no method %s on %s", call.Method, call.Action)
	} else if result, err := handler(call.Data); err != nil {
		reply["type"] = "exception"
		reply["message"] = err.Error()
	} else {
		reply["result"] = result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reply) //nolint:errcheck // test server, client sees truncated body
}

// authorised checks the credentials of a router request.
func (s *Server) authorised(r *http.Request) bool {
	if s.basic {
		user, pass, ok := r.BasicAuth()
		return ok && user == s.username && pass == s.password
	}
	c, err := r.Cookie(SessionCookie)
	return err == nil && c.Value == sessionToken
}

func readEnvelopes(r *http.Request) ([]byte, []wireRequest, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, nil, err
	}

	var reqs []wireRequest
	if err := json.Unmarshal(body, &reqs); err != nil {
		return body, nil, err
	}
	return body, reqs, nil
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body)) //nolint:errcheck // test server
}
