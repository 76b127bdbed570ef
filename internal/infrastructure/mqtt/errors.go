package mqtt

import "errors"

// Errors returned by Client. Publish, subscribe and connect failures wrap
// the underlying paho error.
var (
	ErrNotConnected     = errors.New("mqtt: not connected to broker")
	ErrConnectionFailed = errors.New("mqtt: connection failed")
	ErrPublishFailed    = errors.New("mqtt: publish failed")
	ErrSubscribeFailed  = errors.New("mqtt: subscribe failed")

	// ErrInvalidQoS rejects QoS levels above 2.
	ErrInvalidQoS = errors.New("mqtt: QoS must be 0, 1 or 2")

	// ErrInvalidTopic rejects empty topics, and wildcards in publish topics.
	ErrInvalidTopic = errors.New("mqtt: invalid topic")
)
