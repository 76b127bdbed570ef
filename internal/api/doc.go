// Package api serves the relay's HTTP endpoints.
//
//	GET /healthz              dependency health, 200 or 503
//	GET /metrics              Prometheus exposition
//	GET /api/v1/audit         audit trail (action, target, since, limit, offset)
//	GET /api/v1/version       build version
//	GET /api/v1/events/stream WebSocket stream of relay channels
//
// When a JWT secret is configured, /api/v1 requires a bearer token. The
// stream accepts ?token= as well and needs only the stream scope.
//
// Stream clients send {"type":"subscribe","payload":{"channels":[...]}} and
// then receive {"type":"event","channel":...,"payload":...} messages for
// event.relayed, event.command and events.open.
//
// Every request gets an X-Request-ID and is logged with its status and
// duration. Panics in handlers are recovered and answered with a 500.
package api
