package vars

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestCommitShort(t *testing.T) {
	orig := Commit
	defer func() { Commit = orig }()

	tests := []struct {
		commit string
		want   string
	}{
		{"da15c174cd2ada1ad247906536c101e8f6799def", "da15c17"},
		{"abc", "abc"},
		{"", ""},
	}

	for _, tt := range tests {
		Commit = tt.commit
		if got := CommitShort(); got != tt.want {
			t.Errorf("CommitShort() with %q = %q, want %q", tt.commit, got, tt.want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	origName, origVersion := Name, Version
	defer func() { Name, Version = origName, origVersion }()

	Name, Version = "EDRP-Bridge", "v0.3.1"
	if got := UserAgent(); got != "EDRP-Bridge/v0.3.1" {
		t.Errorf("UserAgent() = %q, want %q", got, "EDRP-Bridge/v0.3.1")
	}
}

func TestInfoJSON(t *testing.T) {
	origCommit, origRevision := Commit, Revision
	defer func() { Commit, Revision = origCommit, origRevision }()

	Commit, Revision = "da15c174cd2ada1ad247906536c101e8f6799def", 12

	data, err := json.Marshal(Info())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got["commit_short"] != "da15c17" {
		t.Errorf("commit_short = %v, want da15c17", got["commit_short"])
	}
	if got["revision"] != float64(12) {
		t.Errorf("revision = %v, want 12", got["revision"])
	}
	if got["license"] != License {
		t.Errorf("license = %v, want %s", got["license"], License)
	}

	// Only the json tag is part of the contract
	typ := reflect.TypeOf(BuildInfo{})
	for i := range typ.NumField() {
		f := typ.Field(i)
		if tag := f.Tag.Get("example"); tag != "" {
			t.Errorf("BuildInfo.%s carries unused example tag %q", f.Name, tag)
		}
	}
}
