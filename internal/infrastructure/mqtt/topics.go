package mqtt

import "strings"

// DefaultPrefix is the topic root used when none is configured.
const DefaultPrefix = "zenoss"

// Topics builds the relay's MQTT topics below a configurable prefix.
//
//	topics := mqtt.NewTopics("noc")
//	topics.Event("db01", "0242ac11-0002")
//	// Returns: "noc/events/db01/0242ac11-0002"
type Topics struct {
	prefix string
}

// NewTopics returns topic builders rooted at prefix. Surrounding slashes are
// dropped; an empty prefix means DefaultPrefix.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Topics{prefix: prefix}
}

// Prefix returns the topic root.
func (t Topics) Prefix() string {
	return t.prefix
}

// Event returns the topic a relayed event is published on.
//
// Example: zenoss/events/db01/0242ac11-0002
func (t Topics) Event(device, evid string) string {
	return t.prefix + "/events/" + Segment(device) + "/" + Segment(evid)
}

// AllEvents matches every relayed event.
func (t Topics) AllEvents() string {
	return t.prefix + "/events/#"
}

// EventCommand returns the topic that requests a state change of one event.
//
// Example: zenoss/command/events/0242ac11-0002
func (t Topics) EventCommand(evid string) string {
	return t.prefix + "/command/events/" + Segment(evid)
}

// AllEventCommands matches every event command topic.
func (t Topics) AllEventCommands() string {
	return t.prefix + "/command/events/+"
}

// ParseEventCommand extracts the evid from an event command topic.
func (t Topics) ParseEventCommand(topic string) (evid string, ok bool) {
	evid, ok = strings.CutPrefix(topic, t.prefix+"/command/events/")
	if !ok || evid == "" || strings.Contains(evid, "/") {
		return "", false
	}
	return evid, true
}

// Status returns the relay's retained online/offline status topic.
//
// Example: zenoss/relay/status
func (t Topics) Status() string {
	return t.prefix + "/relay/status"
}

// Segment makes a value safe for use as one topic level.
// Level separators and wildcards become underscores; empty values become "_".
func Segment(s string) string {
	if s == "" {
		return "_"
	}
	return strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(s)
}
