package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/zenoss-client/internal/audit"
	"github.com/nerrad567/zenoss-client/internal/auth"
	"github.com/nerrad567/zenoss-client/pkg/zenoss"
	"github.com/nerrad567/zenoss-client/pkg/zenoss/zenosstest"
)

var success = map[string]any{"success": true}

// writeConfig writes a config file pointing at srv with auditing enabled.
func writeConfig(t *testing.T, srv *zenosstest.Server, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := fmt.Sprintf(`
zenoss:
  url: %q
  username: %q
  password: %q

logging:
  level: error

database:
  enabled: true
  path: %q
%s`, srv.URL, zenosstest.DefaultUsername, zenosstest.DefaultPassword, filepath.Join(dir, "audit.db"), extra)

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

// execute runs one command line and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var stdout, stderr bytes.Buffer
	err := run(ctx, args, &stdout, &stderr)
	return stdout.String(), err
}

func newServer(t *testing.T) *zenosstest.Server {
	t.Helper()
	srv := zenosstest.New()
	t.Cleanup(srv.Close)
	return srv
}

// =============================================================================
// Configuration Tests
// =============================================================================

func TestRunInvalidConfig(t *testing.T) {
	_, err := execute(t, "--config", "/nonexistent/path/config.yaml", "devices", "list")
	if err == nil || !strings.Contains(err.Error(), "loading config") {
		t.Errorf("run() error = %v, want loading config failure", err)
	}
}

func TestRunConfigFromEnvironmentPath(t *testing.T) {
	srv := newServer(t)
	srv.HandleResult(zenoss.TriggersRouter, "getTriggers", map[string]any{"success": true, "data": []any{}})
	t.Setenv("ZENOSS_CONFIG", writeConfig(t, srv, ""))

	if _, err := execute(t, "triggers", "list"); err != nil {
		t.Errorf("run() error = %v", err)
	}
}

func TestRunBadOutputFormat(t *testing.T) {
	_, err := execute(t, "--output", "yaml", "version")
	if err == nil {
		t.Error("run() accepted --output yaml")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.HasPrefix(out, "zenossctl dev") {
		t.Errorf("output = %q", out)
	}
}

func TestRunAuthenticationFailure(t *testing.T) {
	srv := zenosstest.New(zenosstest.WithCredentials("admin", "other"))
	defer srv.Close()

	_, err := execute(t, "--config", writeConfig(t, srv, ""), "devices", "list")
	if err == nil || !strings.Contains(err.Error(), "connecting to") {
		t.Errorf("run() error = %v, want login failure", err)
	}
}

// =============================================================================
// Read Command Tests
// =============================================================================

func TestDevicesList(t *testing.T) {
	srv := newServer(t)
	srv.HandleResult(zenoss.DeviceRouter, "getDevices", map[string]any{
		"success": true,
		"devices": []any{
			map[string]any{"name": "db01", "uid": "/zport/dmd/Devices/Server/Linux/devices/db01", "ipAddressString": "10.0.0.5", "productionState": 1000},
		},
		"totalCount": 1,
		"hash":       "8f2a",
	})
	cfg := writeConfig(t, srv, "")

	out, err := execute(t, "--config", cfg, "devices", "list")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out, "NAME") || !strings.Contains(out, "db01") || !strings.Contains(out, "10.0.0.5") {
		t.Errorf("table output = %q", out)
	}

	out, err = execute(t, "--config", cfg, "-o", "json", "devices", "list")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	var list zenoss.DeviceList
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("json output: %v\n%s", err, out)
	}
	if list.TotalCount != 1 || list.Devices[0].Name != "db01" {
		t.Errorf("list = %+v", list)
	}
}

func TestEventsListSeverityValidation(t *testing.T) {
	srv := newServer(t)

	_, err := execute(t, "--config", writeConfig(t, srv, ""), "events", "list", "--severity", "Urgent")
	if err == nil {
		t.Fatal("run() accepted an unknown severity")
	}
	if srv.CallCount() != 0 {
		t.Errorf("server received %d calls, want 0", srv.CallCount())
	}
}

func TestCallRawRouter(t *testing.T) {
	srv := newServer(t)
	srv.Handle(zenoss.MessagingRouter, "setBrowserState", zenosstest.Echo)

	out, err := execute(t, "--config", writeConfig(t, srv, ""), "call", zenoss.MessagingRouter, "setBrowserState", `{"state":"x"}`)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out, `"state": "x"`) {
		t.Errorf("output = %q", out)
	}
}

func TestCallRejectsInvalidJSON(t *testing.T) {
	srv := newServer(t)

	_, err := execute(t, "--config", writeConfig(t, srv, ""), "call", zenoss.DeviceRouter, "getInfo", `{uid:`)
	if err == nil {
		t.Fatal("run() accepted invalid JSON data")
	}
	if srv.CallCount() != 0 {
		t.Errorf("server received %d calls, want 0", srv.CallCount())
	}
}

// =============================================================================
// Mutation and Audit Tests
// =============================================================================

func TestMutationsAreAudited(t *testing.T) {
	srv := newServer(t)
	srv.HandleResult(zenoss.EventsRouter, "acknowledge", success)
	srv.HandleResult(zenoss.TriggersRouter, "addTrigger", success)
	cfg := writeConfig(t, srv, "")

	if _, err := execute(t, "--config", cfg, "events", "ack", "e1", "e2"); err != nil {
		t.Fatalf("events ack: %v", err)
	}
	if _, err := execute(t, "--config", cfg, "triggers", "add", "page-oncall"); err != nil {
		t.Fatalf("triggers add: %v", err)
	}

	out, err := execute(t, "--config", cfg, "-o", "json", "audit", "list")
	if err != nil {
		t.Fatalf("audit list: %v", err)
	}
	var result audit.ListResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("json output: %v\n%s", err, out)
	}
	if result.Total != 3 {
		t.Fatalf("Total = %d, want 3", result.Total)
	}

	actions := map[string]string{}
	for _, e := range result.Entries {
		actions[e.Target] = e.Action
		if e.Username != zenosstest.DefaultUsername || e.Server != srv.URL {
			t.Errorf("entry %s user=%q server=%q", e.ID, e.Username, e.Server)
		}
	}
	want := map[string]string{"e1": "event.acknowledge", "e2": "event.acknowledge", "page-oncall": "trigger.add"}
	for target, action := range want {
		if actions[target] != action {
			t.Errorf("target %s action = %q, want %q", target, actions[target], action)
		}
	}

	out, err = execute(t, "--config", cfg, "-o", "json", "audit", "list", "--action", "trigger.add")
	if err != nil {
		t.Fatalf("audit list --action: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil || result.Total != 1 {
		t.Errorf("filtered Total = %d (%v), want 1", result.Total, err)
	}
}

func TestFailedMutationIsNotAudited(t *testing.T) {
	srv := newServer(t)
	srv.HandleResult(zenoss.EventsRouter, "close", map[string]any{"success": false, "msg": "no such event"})
	cfg := writeConfig(t, srv, "")

	if _, err := execute(t, "--config", cfg, "events", "close", "e1"); err == nil {
		t.Fatal("events close succeeded on success:false")
	}

	out, err := execute(t, "--config", cfg, "-o", "json", "audit", "list")
	if err != nil {
		t.Fatalf("audit list: %v", err)
	}
	var result audit.ListResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("json output: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("Total = %d, want 0", result.Total)
	}
}

func TestAuditDisabled(t *testing.T) {
	srv := newServer(t)
	cfg := writeConfig(t, srv, "")
	content, _ := os.ReadFile(cfg)
	disabled := strings.Replace(string(content), "enabled: true", "enabled: false", 1)
	if err := os.WriteFile(cfg, []byte(disabled), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "--config", cfg, "audit", "list")
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Errorf("run() error = %v, want disabled", err)
	}
}

func TestPropsSetParsesJSONValues(t *testing.T) {
	tests := map[string]any{
		"30":      float64(30),
		"true":    true,
		`["a"]`:   []any{"a"},
		"/Server": "/Server",
	}
	for in, want := range tests {
		if got := propertyValue(in); fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("propertyValue(%q) = %#v, want %#v", in, got, want)
		}
	}
}

// =============================================================================
// Token Command Tests
// =============================================================================

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenMintsVerifiableToken(t *testing.T) {
	srv := newServer(t)
	cfg := writeConfig(t, srv, `
relay:
  api:
    jwt_secret: "`+testSecret+`"
`)

	out, err := execute(t, "--config", cfg, "token", "--scope", "stream", "noc-wall")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	claims, err := auth.ParseToken(strings.TrimSpace(out), testSecret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Subject != "noc-wall" || claims.Scope != auth.ScopeStream {
		t.Errorf("claims = %+v", claims)
	}
	if srv.CallCount() != 0 {
		t.Errorf("token contacted Zenoss %d times", srv.CallCount())
	}
}

func TestTokenWithoutSecret(t *testing.T) {
	srv := newServer(t)

	_, err := execute(t, "--config", writeConfig(t, srv, ""), "token", "ops")
	if !errors.Is(err, auth.ErrSecretMissing) {
		t.Errorf("run() error = %v, want ErrSecretMissing", err)
	}
}

// =============================================================================
// Relay Command Tests
// =============================================================================

func TestRelayRunsUntilCancelled(t *testing.T) {
	srv := newServer(t)
	srv.HandleResult(zenoss.EventsRouter, "query", map[string]any{"success": true, "events": []any{}, "totalCount": 0})
	cfg := writeConfig(t, srv, `
relay:
  interval: 1
  limit: 10
  metrics_addr: "127.0.0.1:0"
`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		var stdout, stderr bytes.Buffer
		done <- run(ctx, []string{"--config", cfg, "relay"}, &stdout, &stderr)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for srv.CallCount() == 0 {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("relay never polled")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run() error = %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("relay did not stop after cancel")
	}

	call := srv.Calls()[0]
	if call.Action != zenoss.EventsRouter || call.Method != "query" {
		t.Errorf("first call = %s.%s", call.Action, call.Method)
	}
}
