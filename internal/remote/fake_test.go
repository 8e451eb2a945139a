package remote

import (
	"context"
	"encoding/json"
	"fmt"
)

// fakeTransport records requested paths and replays canned responses.
type fakeTransport struct {
	getBody map[string]string
	getErr  error
	postErr error

	gets  []string
	posts []string
}

func (f *fakeTransport) Get(_ context.Context, path string) (json.RawMessage, error) {
	f.gets = append(f.gets, path)
	if f.getErr != nil {
		return nil, f.getErr
	}

	body, ok := f.getBody[path]
	if !ok {
		return nil, fmt.Errorf("GET %s: %w 404", path, ErrStatus)
	}

	return json.RawMessage(body), nil
}

func (f *fakeTransport) Post(_ context.Context, path string) (string, error) {
	f.posts = append(f.posts, path)
	if f.postErr != nil {
		return "", f.postErr
	}

	return "ok", nil
}
