package remote

import (
	"context"
	"fmt"
	"reflect"
	"testing"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jameson", "Jameson"},
		{"cmdr one", "cmdr+one"},
		{"  double  space ", "++double++space+"},
		{"Hutton Orbital/Alpha Centauri", "Hutton+Orbital/Alpha+Centauri"},
		{"100%", "100%"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPaths(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"logon", LogonPath("cmdr one"), "/logon/cmdr+one"},
		{"logoff", LogoffPath("cmdr one"), "/logoff/cmdr+one"},
		{"station", StationPath("cmdr one", "station two"), "/station/station+two/cmdr+one"},
		{"system", SystemPath("cmdr one", "Sol"), "/system/Sol/cmdr+one"},
		{"ping", PingPath("Jameson"), "/ping/Jameson"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s path = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestNotifyPostsPaths(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft)
	ctx := context.Background()

	calls := []bool{
		c.NotifyLogon(ctx, "cmdr one"),
		c.NotifySystem(ctx, "cmdr one", "Shinrarta Dezhra"),
		c.NotifyStation(ctx, "cmdr one", "station two"),
		c.NotifyPing(ctx, "cmdr one"),
		c.NotifyLogoff(ctx, "cmdr one"),
	}
	for i, ok := range calls {
		if !ok {
			t.Errorf("call %d reported failure", i)
		}
	}

	want := []string{
		"/logon/cmdr+one",
		"/system/Shinrarta+Dezhra/cmdr+one",
		"/station/station+two/cmdr+one",
		"/ping/cmdr+one",
		"/logoff/cmdr+one",
	}
	if !reflect.DeepEqual(ft.posts, want) {
		t.Errorf("posted paths = %v, want %v", ft.posts, want)
	}
}

func TestNotifyTransportFailure(t *testing.T) {
	ft := &fakeTransport{postErr: fmt.Errorf("POST: %w 500", ErrStatus)}
	c := New(ft)

	if c.NotifyLogon(context.Background(), "Jameson") {
		t.Error("NotifyLogon() = true on transport failure, want false")
	}
	if len(ft.posts) != 1 {
		t.Errorf("posts = %d, want 1 attempt", len(ft.posts))
	}
}

func TestQueryActive(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   []string
		wantOK bool
	}{
		{
			name:   "skips malformed element",
			body:   `{"message": "[{\"cmdrName\":\"Jameson\"}, {\"bad\":1}]"}`,
			want:   []string{"Jameson"},
			wantOK: true,
		},
		{
			name:   "several names",
			body:   `{"message": "[{\"cmdrName\":\"Jameson\"},{\"cmdrName\":\"Arcanonn\"}]"}`,
			want:   []string{"Jameson", "Arcanonn"},
			wantOK: true,
		},
		{
			name:   "non-object elements skipped",
			body:   `{"message": "[1, \"x\", {\"cmdrName\": 5}, {\"cmdrName\":\"Salomé\"}]"}`,
			want:   []string{"Salomé"},
			wantOK: true,
		},
		{
			name:   "empty list",
			body:   `{"message": "[]"}`,
			want:   []string{},
			wantOK: true,
		},
		{name: "missing message", body: `{"status": "ok"}`},
		{name: "null message", body: `{"message": null}`},
		{name: "inner not json", body: `{"message": "not json"}`},
		{name: "inner not a list", body: `{"message": "{\"cmdrName\":\"Jameson\"}"}`},
		{name: "inner null", body: `{"message": "null"}`},
		{name: "outer not an object", body: `["Jameson"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{getBody: map[string]string{"/active": tt.body}}
			got, ok := New(ft).QueryActive(context.Background())

			if ok != tt.wantOK {
				t.Fatalf("QueryActive() ok = %v, want %v", ok, tt.wantOK)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("QueryActive() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestQueryActiveCount(t *testing.T) {
	tests := []struct {
		body   string
		want   int
		wantOK bool
	}{
		{`{"message": "42"}`, 42, true},
		{`{"message": " 7 "}`, 7, true},
		{`{"message": 3}`, 3, true},
		{`{"message": "abc"}`, 0, false},
		{`{"message": "4.5"}`, 0, false},
		{`{}`, 0, false},
	}

	for _, tt := range tests {
		ft := &fakeTransport{getBody: map[string]string{"/active-count": tt.body}}
		got, ok := New(ft).QueryActiveCount(context.Background())

		if got != tt.want || ok != tt.wantOK {
			t.Errorf("QueryActiveCount() with %s = (%d, %v), want (%d, %v)", tt.body, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestQueriesShortCircuitOnTransportFailure(t *testing.T) {
	ft := &fakeTransport{getErr: fmt.Errorf("GET: %w 503", ErrStatus)}
	c := New(ft)
	ctx := context.Background()

	if names, ok := c.QueryActive(ctx); ok || names != nil {
		t.Errorf("QueryActive() = (%v, %v), want (nil, false)", names, ok)
	}
	if count, ok := c.QueryActiveCount(ctx); ok || count != 0 {
		t.Errorf("QueryActiveCount() = (%d, %v), want (0, false)", count, ok)
	}

	want := []string{"/active", "/active-count"}
	if !reflect.DeepEqual(ft.gets, want) {
		t.Errorf("requested paths = %v, want %v", ft.gets, want)
	}
}
