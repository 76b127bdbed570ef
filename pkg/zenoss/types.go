package zenoss

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultDeviceClass is the root device organizer.
const DefaultDeviceClass = "/zport/dmd/Devices"

// Organizer roots.
const (
	LocationsRoot = "/zport/dmd/Locations"
	GroupsRoot    = "/zport/dmd/Groups"
	SystemsRoot   = "/zport/dmd/Systems"
)

// Production states understood by setProductionState. The values are
// server-defined and passed through unchanged.
const (
	ProdStateMaintenance = 300
	ProdStateProduction  = 1000
)

// Severity is an event severity name.
type Severity string

// Event severities accepted by the events router.
const (
	SeverityCritical Severity = "Critical"
	SeverityError    Severity = "Error"
	SeverityWarning  Severity = "Warning"
	SeverityInfo     Severity = "Info"
	SeverityDebug    Severity = "Debug"
	SeverityClear    Severity = "Clear"
)

// severityLevels maps severity names to the numeric levels used in queries.
var severityLevels = map[Severity]int{
	SeverityCritical: 5,
	SeverityError:    4,
	SeverityWarning:  3,
	SeverityInfo:     2,
	SeverityDebug:    1,
	SeverityClear:    0,
}

// Valid reports whether s is one of the six known severities.
func (s Severity) Valid() bool {
	_, ok := severityLevels[s]
	return ok
}

// Level returns the numeric level of s, or -1 if s is unknown.
func (s Severity) Level() int {
	if l, ok := severityLevels[s]; ok {
		return l
	}
	return -1
}

// ParseSeverity validates a severity name. Matching is exact.
func ParseSeverity(name string) (Severity, error) {
	s := Severity(name)
	if !s.Valid() {
		return "", fmt.Errorf("%w: severity %q is not one of Critical, Error, Warning, Info, Debug, Clear", ErrValidation, name)
	}
	return s, nil
}

// SeverityName returns the name of a numeric severity level.
func SeverityName(level int) Severity {
	for s, l := range severityLevels {
		if l == level {
			return s
		}
	}
	return Severity(strconv.Itoa(level))
}

// EventState is a numeric event state used in event queries.
type EventState int

// Event states.
const (
	EventStateNew          EventState = 0
	EventStateAcknowledged EventState = 1
	EventStateSuppressed   EventState = 2
	EventStateClosed       EventState = 3
	EventStateCleared      EventState = 4
	EventStateDropped      EventState = 5
	EventStateAged         EventState = 6
)

// Hashcheck is the optimistic concurrency token returned with a device
// listing. Servers send it either as a string or as a number; it is sent
// back in the same form.
type Hashcheck struct {
	raw json.RawMessage
}

// UnmarshalJSON keeps the token exactly as received.
func (h *Hashcheck) UnmarshalJSON(data []byte) error {
	h.raw = append(h.raw[:0], data...)
	return nil
}

// MarshalJSON writes the token back unchanged. An empty token is null.
func (h Hashcheck) MarshalJSON() ([]byte, error) {
	if len(h.raw) == 0 {
		return []byte("null"), nil
	}
	return h.raw, nil
}

// String returns the token without JSON quoting.
func (h Hashcheck) String() string {
	var s string
	if json.Unmarshal(h.raw, &s) == nil {
		return s
	}
	return string(h.raw)
}

// IsZero reports whether no token was received.
func (h Hashcheck) IsZero() bool {
	return len(h.raw) == 0 || bytes.Equal(h.raw, []byte("null"))
}

// Label is a reference that servers send either as plain text or as an
// object with text and uid, e.g. an event's device.
type Label struct {
	Text string `json:"text"`
	UID  string `json:"uid,omitempty"`
}

// UnmarshalJSON accepts a string, a number, an object or null.
func (l *Label) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*l = Label{}
		return nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*l = Label{Text: s}
		return nil
	case trimmed[0] == '{':
		type plain Label
		var p plain
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return err
		}
		*l = Label(p)
		return nil
	default:
		*l = Label{Text: string(trimmed)}
		return nil
	}
}

// MarshalJSON writes plain text when there is no uid.
func (l Label) MarshalJSON() ([]byte, error) {
	if l.UID == "" {
		return json.Marshal(l.Text)
	}
	type plain Label
	return json.Marshal(plain(l))
}

// String returns the label text.
func (l Label) String() string {
	return l.Text
}
