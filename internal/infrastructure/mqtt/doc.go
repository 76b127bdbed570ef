// Package mqtt connects the event relay to an MQTT broker.
//
// The relay publishes each new Zenoss event as JSON below a configurable
// prefix and listens for event commands from other systems:
//
//	zenoss/events/<device>/<evid>     relayed event (not retained)
//	zenoss/command/events/<evid>      {"action":"acknowledge"} and friends
//	zenoss/relay/status               retained online/offline status (LWT)
//
// Device names and evids are used as single topic levels; Segment replaces
// the characters MQTT reserves.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topics := client.Topics()
//	err = client.PublishJSON(topics.Event(ev.Device, ev.EvID), ev, false)
package mqtt
