package relay

import (
	"github.com/nerrad567/zenoss-client/pkg/zenoss"
)

// EventMessage is the JSON payload published for each relayed event.
type EventMessage struct {
	EvID          string `json:"evid"`
	Device        string `json:"device"`
	DeviceUID     string `json:"device_uid,omitempty"`
	Component     string `json:"component,omitempty"`
	EventClass    string `json:"event_class,omitempty"`
	Severity      string `json:"severity"`
	SeverityLevel int    `json:"severity_level"`
	State         string `json:"state,omitempty"`
	Summary       string `json:"summary"`
	Count         int    `json:"count"`
	FirstTime     string `json:"first_time,omitempty"`
	LastTime      string `json:"last_time,omitempty"`
	Server        string `json:"server,omitempty"`
}

func newEventMessage(ev zenoss.Event, server string) EventMessage {
	return EventMessage{
		EvID:          ev.EvID,
		Device:        ev.Device.String(),
		DeviceUID:     ev.Device.UID,
		Component:     ev.Component.String(),
		EventClass:    ev.EventClass.String(),
		Severity:      string(zenoss.SeverityName(ev.Severity)),
		SeverityLevel: ev.Severity,
		State:         ev.EventState.String(),
		Summary:       ev.Summary,
		Count:         ev.Count,
		FirstTime:     ev.FirstTime.String(),
		LastTime:      ev.LastTime.String(),
		Server:        server,
	}
}

// CommandMessage is the payload accepted on event command topics.
type CommandMessage struct {
	Action string `json:"action"`
}
