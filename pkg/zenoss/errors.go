package zenoss

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for router operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, zenoss.ErrAuthentication) {
//	    // Log in again
//	}
var (
	// ErrUnknownRouter indicates a router name missing from the router table.
	// Requests for unknown routers are never sent.
	ErrUnknownRouter = errors.New("zenoss: unknown router")

	// ErrAuthentication indicates the login failed or a call was answered
	// with the login form instead of JSON.
	ErrAuthentication = errors.New("zenoss: authentication failed")

	// ErrTransport indicates the HTTP exchange failed or returned a non-2xx status.
	ErrTransport = errors.New("zenoss: transport error")

	// ErrValidation indicates a caller-supplied value was rejected before sending.
	ErrValidation = errors.New("zenoss: validation failed")

	// ErrNotFound indicates a name lookup found no matching object.
	ErrNotFound = errors.New("zenoss: not found")

	// ErrRemote indicates the server processed the call and reported a failure.
	ErrRemote = errors.New("zenoss: remote error")
)

// StatusError is returned when the server answers with a non-2xx status.
// It carries the request body that was sent, for diagnostics.
type StatusError struct {
	StatusCode int
	URL        string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("zenoss: HTTP %d from %s", e.StatusCode, e.URL)
}

// Is reports StatusError as a transport error. A 401 reply is also an
// authentication error, which is how Basic auth sessions learn of bad credentials.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return true
	case ErrAuthentication:
		return e.StatusCode == http.StatusUnauthorized
	default:
		return false
	}
}

// RemoteError carries the message of a failed remote call.
type RemoteError struct {
	Router  string
	Method  string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("zenoss: %s.%s failed", e.Router, e.Method)
	}
	return fmt.Sprintf("zenoss: %s.%s failed: %s", e.Router, e.Method, e.Message)
}

// Is reports RemoteError as ErrRemote.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}
