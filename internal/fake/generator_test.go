package fake

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/woozymasta/edrp-bridge/internal/bridge"
	"github.com/woozymasta/edrp-bridge/internal/remote"
	"github.com/woozymasta/edrp-bridge/internal/tracker"
)

type sink struct {
	posts []string
}

func (s *sink) Get(context.Context, string) (json.RawMessage, error) {
	return nil, errors.New("not expected")
}

func (s *sink) Post(_ context.Context, path string) (string, error) {
	s.posts = append(s.posts, path)
	return "", nil
}

func TestGenerateEvents(t *testing.T) {
	s := &sink{}
	b := bridge.New(tracker.New(remote.New(s), tracker.Options{}))

	sum := GenerateEvents(context.Background(), b, "ED RP", 200, rand.New(rand.NewSource(7)))

	if sum.Events != 200 {
		t.Errorf("Events = %d, want 200", sum.Events)
	}
	if sum.Rejected != 0 {
		t.Errorf("Rejected = %d, want 0", sum.Rejected)
	}
	if len(s.posts) < 3 || !strings.HasPrefix(s.posts[0], "/logon/") {
		t.Fatalf("posts = %v, want a logon first", s.posts)
	}
	if last := s.posts[len(s.posts)-1]; !strings.HasPrefix(last, "/logoff/") {
		t.Errorf("last post = %q, want a logoff", last)
	}

	// The whole replay runs within one ping interval after the logon
	for _, p := range s.posts {
		if strings.HasPrefix(p, "/ping/") {
			t.Errorf("unexpected ping %q", p)
		}
	}
	if sum.Outcomes[tracker.Suppressed] == 0 {
		t.Error("no suppressed pings in a 200 event replay")
	}
}

func TestGenerateEventsUntrackedGroup(t *testing.T) {
	s := &sink{}
	b := bridge.New(tracker.New(remote.New(s), tracker.Options{}))

	GenerateEvents(context.Background(), b, "Mobius", 50, rand.New(rand.NewSource(1)))

	// Only the logoff and status pings escape the untracked gate
	for _, p := range s.posts {
		if !strings.HasPrefix(p, "/logoff/") && !strings.HasPrefix(p, "/ping/") {
			t.Errorf("unexpected post %q outside the tracked group", p)
		}
	}
}
