package zenoss_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nerrad567/zenoss-client/pkg/zenoss"
	"github.com/nerrad567/zenoss-client/pkg/zenoss/zenosstest"
)

// connect logs in to a fake server with its default credentials.
func connect(t *testing.T, srv *zenosstest.Server) *zenoss.Client {
	t.Helper()
	client, err := zenoss.Connect(context.Background(), zenoss.Config{
		URL:      srv.URL,
		Username: zenosstest.DefaultUsername,
		Password: zenosstest.DefaultPassword,
	})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return client
}

// decodeData unmarshals the first data element of a recorded call.
func decodeData(t *testing.T, call zenosstest.Call) map[string]any {
	t.Helper()
	if len(call.Data) != 1 {
		t.Fatalf("call %s.%s data has %d elements, want 1", call.Action, call.Method, len(call.Data))
	}
	var m map[string]any
	if err := json.Unmarshal(call.Data[0], &m); err != nil {
		t.Fatalf("decoding call data: %v", err)
	}
	return m
}

// deviceFixture is a getDevices result with two devices.
func deviceFixture() map[string]any {
	return map[string]any{
		"success": true,
		"devices": []any{
			map[string]any{"name": "testhost.com", "uid": "/zport/dmd/Devices/Server/Linux/devices/testhost.com"},
			map[string]any{"name": "db01", "uid": "/zport/dmd/Devices/Server/Linux/devices/db01"},
		},
		"totalCount": 2,
		"hash":       "8f2a",
	}
}
