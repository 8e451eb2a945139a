// Package remote implements the EDRP API client: fire-and-forget event markers
// and the two read queries for active commanders.
package remote

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Client issues semantic EDRP API calls over a Transport.
// Failures are logged and reported as false, never returned as errors.
type Client struct {
	transport Transport
}

// New creates a Client on top of the given transport.
func New(transport Transport) *Client {
	return &Client{transport: transport}
}

// Escape makes a path segment URL-safe the way the API expects:
// literal spaces become '+', nothing else is touched.
func Escape(segment string) string {
	return strings.ReplaceAll(segment, " ", "+")
}

// LogonPath builds the path for a logon marker.
func LogonPath(cmdr string) string {
	return "/logon/" + Escape(cmdr)
}

// LogoffPath builds the path for a logoff marker.
func LogoffPath(cmdr string) string {
	return "/logoff/" + Escape(cmdr)
}

// StationPath builds the path for a station marker.
func StationPath(cmdr, station string) string {
	return "/station/" + Escape(station) + "/" + Escape(cmdr)
}

// SystemPath builds the path for a star system marker.
func SystemPath(cmdr, system string) string {
	return "/system/" + Escape(system) + "/" + Escape(cmdr)
}

// PingPath builds the path for a heartbeat marker.
func PingPath(cmdr string) string {
	return "/ping/" + Escape(cmdr)
}

// NotifyLogon marks a commander logging onto the tracker.
func (c *Client) NotifyLogon(ctx context.Context, cmdr string) bool {
	return c.post(ctx, LogonPath(cmdr))
}

// NotifyLogoff marks a commander logging off the tracker.
func (c *Client) NotifyLogoff(ctx context.Context, cmdr string) bool {
	return c.post(ctx, LogoffPath(cmdr))
}

// NotifyStation marks a commander entering a station.
func (c *Client) NotifyStation(ctx context.Context, cmdr, station string) bool {
	return c.post(ctx, StationPath(cmdr, station))
}

// NotifySystem marks a commander entering a star system.
func (c *Client) NotifySystem(ctx context.Context, cmdr, system string) bool {
	return c.post(ctx, SystemPath(cmdr, system))
}

// NotifyPing tells the API the commander is still active.
func (c *Client) NotifyPing(ctx context.Context, cmdr string) bool {
	return c.post(ctx, PingPath(cmdr))
}

func (c *Client) post(ctx context.Context, path string) bool {
	if _, err := c.transport.Post(ctx, path); err != nil {
		log.Warn().
			Err(err).
			Str("path", path).
			Msg("API request failed")
		return false
	}

	log.Trace().Str("path", path).Msg("API request sent")
	return true
}

// envelope is the common response shape of the read endpoints.
type envelope struct {
	Message json.RawMessage `json:"message"`
}

// activeEntry is a single element of the /active message list.
type activeEntry struct {
	CmdrName *string `json:"cmdrName"`
}

// QueryActive returns the names of commanders with a recent event.
// The message field holds a JSON-encoded list that is decoded a second time.
// Elements without a cmdrName are skipped; any other decode problem yields false.
func (c *Client) QueryActive(ctx context.Context) ([]string, bool) {
	message, ok := c.getMessage(ctx, "/active")
	if !ok {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(message), &items); err != nil {
		log.Warn().
			Err(err).
			Str("message", message).
			Msg("Unable to decode active commanders list")
		return nil, false
	}
	if items == nil {
		// JSON null is not a list
		log.Warn().Str("message", message).Msg("Active commanders message is not a list")
		return nil, false
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		var entry activeEntry
		if err := json.Unmarshal(item, &entry); err != nil || entry.CmdrName == nil {
			log.Warn().
				RawJSON("entry", item).
				Msg("Unexpected active commanders entry")
			continue
		}
		names = append(names, *entry.CmdrName)
	}

	return names, true
}

// QueryActiveCount returns the number of commanders with a recent event.
func (c *Client) QueryActiveCount(ctx context.Context) (int, bool) {
	message, ok := c.getMessage(ctx, "/active-count")
	if !ok {
		return 0, false
	}

	count, err := strconv.Atoi(strings.TrimSpace(message))
	if err != nil {
		log.Warn().
			Err(err).
			Str("message", message).
			Msg("Unable to convert active count to an integer")
		return 0, false
	}

	return count, true
}

// getMessage fetches path and extracts the string message field.
func (c *Client) getMessage(ctx context.Context, path string) (string, bool) {
	body, err := c.transport.Get(ctx, path)
	if err != nil {
		log.Warn().
			Err(err).
			Str("path", path).
			Msg("API request failed")
		return "", false
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		log.Warn().
			Err(err).
			Str("path", path).
			Msg("Unable to decode API response")
		return "", false
	}
	if len(env.Message) == 0 || string(env.Message) == "null" {
		log.Warn().Str("path", path).Msg("API response has no message")
		return "", false
	}

	// The message is normally a string; bare JSON values are taken verbatim
	var message string
	if err := json.Unmarshal(env.Message, &message); err != nil {
		return string(env.Message), true
	}

	return message, true
}
