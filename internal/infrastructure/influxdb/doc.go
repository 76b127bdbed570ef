// Package influxdb writes relay measurements to InfluxDB 2.x.
//
// Three measurements are recorded:
//
//	zenoss_event    one point per relayed event (tags: device, severity, component, event_class)
//	zenoss_events   open event count per severity for each poll
//	zenoss_devices  device inventory size for each poll
//
// Writes are non-blocking and batched by the InfluxDB client. Failed batches
// are counted (Failures) and reported through SetOnError rather than returned.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	client.SetOnError(func(err error) { log.Warn("influx write", "error", err) })
package influxdb
