// Package relay forwards Zenoss events to MQTT and InfluxDB.
//
// A Relay polls the events router on a fixed interval. Each event whose evid
// has not been seen before is published as JSON on
// <prefix>/events/<device>/<evid> and recorded as a zenoss_event point. Every
// poll also records open event counts per severity and the device inventory
// size. An optional Broadcaster receives the same messages for live stream
// clients.
//
// The relay accepts event commands in the other direction: a message on
// <prefix>/command/events/<evid> with a payload such as
//
//	{"action": "acknowledge"}
//
// changes that event's state through the events router.
//
// Poll and command failures are logged and counted; they never stop the loop.
package relay
