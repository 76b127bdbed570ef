package zenoss

import (
	"context"
	"fmt"
)

// defaultEventLimit is the page size of GetEvents when none is given.
const defaultEventLimit = 100

// Event is one row of an event console query.
type Event struct {
	EvID       string `json:"evid"`
	Device     Label  `json:"device"`
	Component  Label  `json:"component"`
	EventClass Label  `json:"eventClass"`
	Summary    string `json:"summary"`
	Severity   int    `json:"severity"`
	EventState Label  `json:"eventState"`
	Count      int    `json:"count"`
	FirstTime  Label  `json:"firstTime"`
	LastTime   Label  `json:"lastTime"`
}

// EventList is the result of an events query.
type EventList struct {
	Success    bool    `json:"success"`
	Events     []Event `json:"events"`
	TotalCount int     `json:"totalCount"`
}

// EventQuery selects events for GetEvents. Empty filters are not sent.
type EventQuery struct {
	Device     string
	Component  string
	EventClass string

	// Limit is the page size. Default: 100.
	Limit int

	// Severities defaults to Critical, Error, Warning and Info.
	Severities []Severity

	// States defaults to New and Acknowledged.
	States []EventState
}

// params builds the data payload of an events query.
func (q EventQuery) params() (map[string]any, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}

	severities := []int{5, 4, 3, 2}
	if len(q.Severities) > 0 {
		severities = severities[:0]
		for _, s := range q.Severities {
			if !s.Valid() {
				return nil, fmt.Errorf("%w: severity %q", ErrValidation, s)
			}
			severities = append(severities, s.Level())
		}
	}

	states := []int{int(EventStateNew), int(EventStateAcknowledged)}
	if len(q.States) > 0 {
		states = states[:0]
		for _, st := range q.States {
			states = append(states, int(st))
		}
	}

	filter := map[string]any{
		"severity":   severities,
		"eventState": states,
	}
	if q.Device != "" {
		filter["device"] = q.Device
	}
	if q.Component != "" {
		filter["component"] = q.Component
	}
	if q.EventClass != "" {
		filter["eventClass"] = q.EventClass
	}

	return map[string]any{
		"start":  0,
		"limit":  limit,
		"dir":    "DESC",
		"sort":   "severity",
		"params": filter,
	}, nil
}

// GetEvents queries the event console, most severe first.
//
// Parameters:
//   - ctx: Context for cancellation
//   - q: Filters; the zero value returns open events of Info and above
//
// Returns:
//   - *EventList: Matching events and the total count
//   - error: ErrValidation for an unknown severity filter, or any Invoke error
func (c *Client) GetEvents(ctx context.Context, q EventQuery) (*EventList, error) {
	data, err := q.params()
	if err != nil {
		return nil, err
	}

	var list EventList
	if err := c.call(ctx, EventsRouter, "query", &list, data); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetEventDetail returns every field of one event.
func (c *Client) GetEventDetail(ctx context.Context, evid string) (map[string]any, error) {
	var res struct {
		Event []map[string]any `json:"event"`
	}
	if err := c.call(ctx, EventsRouter, "detail", &res, map[string]any{"evid": evid}); err != nil {
		return nil, err
	}
	if len(res.Event) == 0 {
		return nil, fmt.Errorf("%w: event %q", ErrNotFound, evid)
	}
	return res.Event[0], nil
}

// EventAction is an events router method that changes event state.
type EventAction string

// Event state changes.
const (
	EventActionAcknowledge   EventAction = "acknowledge"
	EventActionUnacknowledge EventAction = "unacknowledge"
	EventActionClose         EventAction = "close"
	EventActionReopen        EventAction = "reopen"
)

// Valid reports whether a is a known state change.
func (a EventAction) Valid() bool {
	switch a {
	case EventActionAcknowledge, EventActionUnacknowledge, EventActionClose, EventActionReopen:
		return true
	default:
		return false
	}
}

// ChangeEventState applies a state change to one event.
func (c *Client) ChangeEventState(ctx context.Context, evid string, action EventAction) (*Result, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("%w: event action %q", ErrValidation, action)
	}
	return c.mutate(ctx, EventsRouter, string(action), map[string]any{
		"evids": []string{evid},
	})
}

// AckEvent acknowledges an event.
func (c *Client) AckEvent(ctx context.Context, evid string) (*Result, error) {
	return c.ChangeEventState(ctx, evid, EventActionAcknowledge)
}

// UnacknowledgeEvent returns an acknowledged event to New.
func (c *Client) UnacknowledgeEvent(ctx context.Context, evid string) (*Result, error) {
	return c.ChangeEventState(ctx, evid, EventActionUnacknowledge)
}

// CloseEvent closes an event, moving it to history.
func (c *Client) CloseEvent(ctx context.Context, evid string) (*Result, error) {
	return c.ChangeEventState(ctx, evid, EventActionClose)
}

// ReopenEvent reopens a closed event.
func (c *Client) ReopenEvent(ctx context.Context, evid string) (*Result, error) {
	return c.ChangeEventState(ctx, evid, EventActionReopen)
}

// CreateEventOnDevice raises an event against a device.
//
// The severity is checked before anything is sent.
//
// Returns:
//   - *Result: The server's reply
//   - error: ErrValidation for an unknown severity, or any Invoke error
func (c *Client) CreateEventOnDevice(ctx context.Context, device string, severity Severity, summary string) (*Result, error) {
	if !severity.Valid() {
		return nil, fmt.Errorf("%w: severity %q is not one of Critical, Error, Warning, Info, Debug, Clear", ErrValidation, severity)
	}
	return c.mutate(ctx, EventsRouter, "add_event", map[string]any{
		"device":     device,
		"summary":    summary,
		"severity":   string(severity),
		"component":  "",
		"evclasskey": "",
		"evclass":    "",
	})
}
