package zenoss

import (
	"errors"
	"testing"
)

func TestEncodeRequest(t *testing.T) {
	body, err := encodeRequest(newRequest(DeviceRouter, "getDevices", 7, nil))
	if err != nil {
		t.Fatalf("encodeRequest() error = %v", err)
	}
	want := `[{"action":"DeviceRouter","method":"getDevices","data":[],"type":"rpc","tid":7}]`
	if string(body) != want {
		t.Errorf("encodeRequest() = %s, want %s", body, want)
	}
}

func TestEncodeRequest_Unencodable(t *testing.T) {
	_, err := encodeRequest(newRequest(DeviceRouter, "getDevices", 1, []any{make(chan int)}))
	if err == nil {
		t.Error("encodeRequest() should fail for a channel parameter")
	}
}

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantTID    int64
		wantResult string
		wantErr    bool
	}{
		{name: "object", body: `{"type":"rpc","tid":3,"result":{"success":true}}`, wantTID: 3, wantResult: `{"success":true}`},
		{name: "list", body: ` [{"type":"rpc","tid":4,"result":[1,2]}]`, wantTID: 4, wantResult: `[1,2]`},
		{name: "empty list", body: `[]`, wantErr: true},
		{name: "html", body: `<html><input name="__ac_name"></html>`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
		{name: "truncated", body: `{"type":"rpc"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := decodeResponse([]byte(tt.body))
			if tt.wantErr {
				if !errors.Is(err, errNotJSON) {
					t.Errorf("decodeResponse() error = %v, want errNotJSON", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeResponse() error = %v", err)
			}
			if resp.TID != tt.wantTID {
				t.Errorf("TID = %d, want %d", resp.TID, tt.wantTID)
			}
			if string(resp.Result) != tt.wantResult {
				t.Errorf("Result = %s, want %s", resp.Result, tt.wantResult)
			}
		})
	}
}

func TestIsLoginForm(t *testing.T) {
	if !isLoginForm([]byte(`<input type="text" name="__ac_name" />`)) {
		t.Error("login form not detected")
	}
	if isLoginForm([]byte(`{"result":{"success":true}}`)) {
		t.Error("JSON reply detected as login form")
	}
}
