package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names written by the relay.
const (
	MeasurementEvent   = "zenoss_event"
	MeasurementSummary = "zenoss_events"
	MeasurementDevices = "zenoss_devices"
)

// EventSample is one relayed Zenoss event.
type EventSample struct {
	EvID       string
	Device     string
	Component  string
	EventClass string
	Severity   string
	Count      int
	Summary    string
	Time       time.Time
}

// WriteEvent records a relayed event. Non-blocking.
//
// Example:
//
//	client.WriteEvent(influxdb.EventSample{
//	    EvID: "0242ac11-0002", Device: "db01", Severity: "Critical", Count: 3,
//	})
func (c *Client) WriteEvent(ev EventSample) {
	if c.closed.Load() {
		return
	}
	c.writeAPI.WritePoint(eventPoint(ev))
}

// WriteEventSummary records the number of open events per severity name.
//
// Parameters:
//   - counts: Severity name to open event count (e.g., {"Critical": 2})
//   - at: Poll time
func (c *Client) WriteEventSummary(counts map[string]int, at time.Time) {
	if c.closed.Load() {
		return
	}
	for _, p := range summaryPoints(counts, at) {
		c.writeAPI.WritePoint(p)
	}
}

// WriteDeviceCount records the size of the device inventory.
func (c *Client) WriteDeviceCount(total int, at time.Time) {
	if c.closed.Load() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(MeasurementDevices, nil, map[string]any{"total": total}, at))
}

func eventPoint(ev EventSample) *write.Point {
	at := ev.Time
	if at.IsZero() {
		at = time.Now()
	}

	tags := map[string]string{
		"device":   ev.Device,
		"severity": ev.Severity,
	}
	if ev.Component != "" {
		tags["component"] = ev.Component
	}
	if ev.EventClass != "" {
		tags["event_class"] = ev.EventClass
	}

	return write.NewPoint(MeasurementEvent, tags, map[string]any{
		"evid":    ev.EvID,
		"count":   ev.Count,
		"summary": ev.Summary,
	}, at)
}

func summaryPoints(counts map[string]int, at time.Time) []*write.Point {
	points := make([]*write.Point, 0, len(counts))
	for severity, open := range counts {
		points = append(points, write.NewPoint(MeasurementSummary,
			map[string]string{"severity": severity},
			map[string]any{"open": open},
			at,
		))
	}
	return points
}
