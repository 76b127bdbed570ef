package zenoss_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nerrad567/zenoss-client/pkg/zenoss"
	"github.com/nerrad567/zenoss-client/pkg/zenoss/zenosstest"
)

func newTriggerServer() *zenosstest.Server {
	srv := zenosstest.New()
	srv.HandleResult(zenoss.TriggersRouter, "getTriggers", map[string]any{
		"success": true,
		"data": []any{
			map[string]any{"uuid": "2f6e-11", "name": "critical-db", "enabled": true},
			map[string]any{"uuid": "2f6e-12", "name": "web-warn", "enabled": false},
		},
	})
	srv.HandleResult(zenoss.TriggersRouter, "getNotifications", map[string]any{
		"success": true,
		"data": []any{
			map[string]any{"uid": "/zport/dmd/NotificationSubscriptions/oncall", "id": "oncall", "action": "email", "enabled": true},
		},
	})
	return srv
}

func TestTriggers(t *testing.T) {
	srv := newTriggerServer()
	defer srv.Close()
	srv.HandleResult(zenoss.TriggersRouter, "removeTrigger", success)
	srv.HandleResult(zenoss.TriggersRouter, "addTrigger", success)
	client := connect(t, srv)

	triggers, err := client.GetTriggers(context.Background())
	if err != nil {
		t.Fatalf("GetTriggers() error = %v", err)
	}
	if len(triggers) != 2 || triggers[1].Enabled {
		t.Errorf("triggers = %+v", triggers)
	}

	if _, err := client.FindTrigger(context.Background(), "missing"); !errors.Is(err, zenoss.ErrNotFound) {
		t.Errorf("FindTrigger() error = %v, want ErrNotFound", err)
	}

	if _, err := client.AddTrigger(context.Background(), "disk-full"); err != nil {
		t.Fatalf("AddTrigger() error = %v", err)
	}
	if got := lastData(t, srv)["newId"]; got != "disk-full" {
		t.Errorf("newId = %v, want disk-full", got)
	}

	if _, err := client.RemoveTrigger(context.Background(), "web-warn"); err != nil {
		t.Fatalf("RemoveTrigger() error = %v", err)
	}
	if got := lastData(t, srv)["uuid"]; got != "2f6e-12" {
		t.Errorf("uuid = %v, want 2f6e-12", got)
	}
}

func TestRemoveTrigger_NotFound(t *testing.T) {
	srv := newTriggerServer()
	defer srv.Close()
	client := connect(t, srv)

	_, err := client.RemoveTrigger(context.Background(), "missing")
	if !errors.Is(err, zenoss.ErrNotFound) {
		t.Fatalf("RemoveTrigger() error = %v, want ErrNotFound", err)
	}
	if srv.CallCount() != 1 {
		t.Errorf("server saw %d calls, want only the listing", srv.CallCount())
	}
}

func TestNotifications(t *testing.T) {
	srv := newTriggerServer()
	defer srv.Close()
	srv.HandleResult(zenoss.TriggersRouter, "addNotification", success)
	srv.HandleResult(zenoss.TriggersRouter, "removeNotification", success)
	client := connect(t, srv)

	n, err := client.FindNotification(context.Background(), "oncall")
	if err != nil {
		t.Fatalf("FindNotification() error = %v", err)
	}
	if n.Action != "email" {
		t.Errorf("Action = %q", n.Action)
	}

	if _, err := client.AddNotification(context.Background(), "pager", ""); err != nil {
		t.Fatalf("AddNotification() error = %v", err)
	}
	data := lastData(t, srv)
	if data["newId"] != "pager" || data["action"] != "email" {
		t.Errorf("addNotification data = %v, want default action email", data)
	}

	if _, err := client.RemoveNotification(context.Background(), "oncall"); err != nil {
		t.Fatalf("RemoveNotification() error = %v", err)
	}
	if got := lastData(t, srv)["uid"]; got != "/zport/dmd/NotificationSubscriptions/oncall" {
		t.Errorf("uid = %v", got)
	}

	if _, err := client.RemoveNotification(context.Background(), "nobody"); !errors.Is(err, zenoss.ErrNotFound) {
		t.Errorf("RemoveNotification() error = %v, want ErrNotFound", err)
	}
}

func TestProperties(t *testing.T) {
	srv := zenosstest.New()
	defer srv.Close()
	srv.HandleResult(zenoss.PropertiesRouter, "getZenProperties", map[string]any{
		"success": true,
		"data": []any{
			map[string]any{"id": "zSnmpCommunity", "type": "string", "value": "public"},
			map[string]any{"id": "zPingMonitorIgnore", "type": "boolean", "value": false},
		},
	})
	srv.HandleResult(zenoss.PropertiesRouter, "setZenProperty", success)
	srv.HandleResult(zenoss.ManufacturersRouter, "getManufacturerList", map[string]any{
		"success": true,
		"data":    []any{map[string]any{"id": "Cisco"}, map[string]any{"id": "Dell"}},
	})
	client := connect(t, srv)

	props, err := client.GetZenProperties(context.Background(), zenoss.DefaultDeviceClass)
	if err != nil {
		t.Fatalf("GetZenProperties() error = %v", err)
	}
	if len(props) != 2 || string(props[1].Value) != "false" {
		t.Errorf("props = %+v", props)
	}

	if _, err := client.SetZenProperty(context.Background(), zenoss.DefaultDeviceClass, "zSnmpCommunity", "private"); err != nil {
		t.Fatalf("SetZenProperty() error = %v", err)
	}
	call := srv.Calls()[1]
	if call.Path != "/zport/dmd/properties_router" {
		t.Errorf("Path = %q", call.Path)
	}
	if data := decodeData(t, call); data["zProperty"] != "zSnmpCommunity" || data["value"] != "private" {
		t.Errorf("setZenProperty data = %v", data)
	}

	manufacturers, err := client.GetManufacturers(context.Background())
	if err != nil || len(manufacturers) != 2 {
		t.Errorf("GetManufacturers() = %v, %v", manufacturers, err)
	}
	if got := srv.Calls()[2].Path; got != "/zport/dmd/manufacturers_router" {
		t.Errorf("Path = %q", got)
	}
}
