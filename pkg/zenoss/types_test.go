package zenoss_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/nerrad567/zenoss-client/pkg/zenoss"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in        string
		wantLevel int
		wantErr   bool
	}{
		{in: "Critical", wantLevel: 5},
		{in: "Error", wantLevel: 4},
		{in: "Warning", wantLevel: 3},
		{in: "Info", wantLevel: 2},
		{in: "Debug", wantLevel: 1},
		{in: "Clear", wantLevel: 0},
		{in: "critical", wantErr: true},
		{in: "", wantErr: true},
		{in: "Fatal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			sev, err := zenoss.ParseSeverity(tt.in)
			if tt.wantErr {
				if !errors.Is(err, zenoss.ErrValidation) {
					t.Errorf("ParseSeverity(%q) error = %v, want ErrValidation", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSeverity(%q) error = %v", tt.in, err)
			}
			if sev.Level() != tt.wantLevel {
				t.Errorf("Level() = %d, want %d", sev.Level(), tt.wantLevel)
			}
			if zenoss.SeverityName(tt.wantLevel) != sev {
				t.Errorf("SeverityName(%d) = %q, want %q", tt.wantLevel, zenoss.SeverityName(tt.wantLevel), sev)
			}
		})
	}
}

func TestSeverityName_Unknown(t *testing.T) {
	if got := zenoss.SeverityName(9); got != "9" {
		t.Errorf("SeverityName(9) = %q, want 9", got)
	}
	if got := zenoss.Severity("Fatal").Level(); got != -1 {
		t.Errorf("Level() = %d, want -1", got)
	}
}

func TestLabel_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want zenoss.Label
	}{
		{name: "string", in: `"db01"`, want: zenoss.Label{Text: "db01"}},
		{name: "object", in: `{"text":"db01","uid":"/zport/dmd/Devices/db01"}`, want: zenoss.Label{Text: "db01", UID: "/zport/dmd/Devices/db01"}},
		{name: "number", in: `1700000000`, want: zenoss.Label{Text: "1700000000"}},
		{name: "null", in: `null`, want: zenoss.Label{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got zenoss.Label
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Label = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLabel_MarshalJSON(t *testing.T) {
	plain, err := json.Marshal(zenoss.Label{Text: "db01"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(plain) != `"db01"` {
		t.Errorf("plain label = %s, want a string", plain)
	}

	withUID, err := json.Marshal(zenoss.Label{Text: "db01", UID: "/x"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(withUID) != `{"text":"db01","uid":"/x"}` {
		t.Errorf("label with uid = %s", withUID)
	}
}

func TestHashcheck(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantString string
		wantOut    string
	}{
		{name: "string token", in: `{"hash":"abc"}`, wantString: "abc", wantOut: `"abc"`},
		{name: "numeric token", in: `{"hash":42}`, wantString: "42", wantOut: `42`},
		{name: "missing token", in: `{}`, wantString: "", wantOut: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Hash zenoss.Hashcheck `json:"hash"`
			}
			if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if v.Hash.String() != tt.wantString {
				t.Errorf("String() = %q, want %q", v.Hash.String(), tt.wantString)
			}
			out, err := json.Marshal(v.Hash)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(out) != tt.wantOut {
				t.Errorf("Marshal() = %s, want %s", out, tt.wantOut)
			}
		})
	}
}

func TestRouters(t *testing.T) {
	names := zenoss.Routers()
	if len(names) != 14 {
		t.Errorf("Routers() has %d entries, want 14", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Routers() not sorted at %d: %q >= %q", i, names[i-1], names[i])
		}
	}

	tests := map[string]string{
		zenoss.EventsRouter:   "evconsole",
		zenoss.DeviceRouter:   "device",
		zenoss.TriggersRouter: "triggers",
	}
	for name, want := range tests {
		if got, ok := zenoss.RouterPath(name); !ok || got != want {
			t.Errorf("RouterPath(%q) = %q, %v, want %q", name, got, ok, want)
		}
	}
	if _, ok := zenoss.RouterPath("deviceRouter"); ok {
		t.Error("router names are case sensitive")
	}
}
