// Package push implements the Expo push gateway client used to deliver
// mobile notifications.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// DefaultAPIURL is Expo's push endpoint.
const DefaultAPIURL = "https://exp.host/--/api/v2/push/send"

// MaxBatchSize is the gateway's documented ceiling per request.
const MaxBatchSize = 100

// ErrorDeviceNotRegistered is the ticket error kind that signals a dead
// token; callers should clear the user's registration when they see it.
const ErrorDeviceNotRegistered = "DeviceNotRegistered"

// Message is a single push notification request.
type Message struct {
	To        string                 `json:"to"`
	Title     string                 `json:"title,omitempty"`
	Body      string                 `json:"body,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Sound     string                 `json:"sound,omitempty"`
	Priority  string                 `json:"priority,omitempty"`
	ChannelID string                 `json:"channelId,omitempty"`
	TTL       int                    `json:"ttl,omitempty"`
}

// TicketDetails carries the structured error kind on failed tickets.
type TicketDetails struct {
	Error string `json:"error,omitempty"`
}

// Ticket is the gateway's per-message outcome, returned in input order.
type Ticket struct {
	Status  string         `json:"status"` // "ok" or "error"
	ID      string         `json:"id,omitempty"`
	Message string         `json:"message,omitempty"`
	Details *TicketDetails `json:"details,omitempty"`
}

// OK reports whether the ticket indicates a successful handoff.
func (t Ticket) OK() bool { return t.Status == "ok" }

// IsDeviceNotRegistered reports whether the ticket carries the
// token-invalidation error kind.
func (t Ticket) IsDeviceNotRegistered() bool {
	return t.Status == "error" && t.Details != nil && t.Details.Error == ErrorDeviceNotRegistered
}

// ErrorMessage renders a failed ticket's error for logging; empty for ok.
func (t Ticket) ErrorMessage() string {
	if t.OK() {
		return ""
	}
	msg := t.Message
	if msg == "" {
		msg = "unknown error"
	}
	if t.Details != nil && t.Details.Error != "" {
		return fmt.Sprintf("%s: %s", t.Details.Error, msg)
	}
	return msg
}

// Client talks to the Expo push API. The zero value is not usable; use
// NewClient.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a push client. Empty apiURL falls back to DefaultAPIURL;
// a zero timeout gets a 30s default.
func NewClient(apiURL string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send dispatches messages in chunks of at most MaxBatchSize, sequentially,
// and returns one ticket per message in input order. Transport failures never
// surface as an error: every message in a failed chunk gets an error ticket,
// so callers can log outcomes uniformly and rely on the next run to retry.
func (c *Client) Send(ctx context.Context, messages []Message) []Ticket {
	if len(messages) == 0 {
		return nil
	}

	tickets := make([]Ticket, 0, len(messages))
	for start := 0; start < len(messages); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(messages) {
			end = len(messages)
		}
		tickets = append(tickets, c.sendChunk(ctx, messages[start:end])...)
	}
	return tickets
}

func (c *Client) sendChunk(ctx context.Context, chunk []Message) []Ticket {
	body, err := json.Marshal(chunk)
	if err != nil {
		return errorTickets(len(chunk), fmt.Sprintf("encoding push request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return errorTickets(len(chunk), fmt.Sprintf("building push request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errorTickets(len(chunk), fmt.Sprintf("push request failed: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errorTickets(len(chunk), fmt.Sprintf("push API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))))
	}

	var parsed struct {
		Data []Ticket `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return errorTickets(len(chunk), fmt.Sprintf("decoding push response: %v", err))
	}
	if len(parsed.Data) != len(chunk) {
		return errorTickets(len(chunk), fmt.Sprintf("push API returned %d tickets for %d messages", len(parsed.Data), len(chunk)))
	}

	return parsed.Data
}

func errorTickets(n int, msg string) []Ticket {
	tickets := make([]Ticket, n)
	for i := range tickets {
		tickets[i] = Ticket{Status: "error", Message: msg}
	}
	return tickets
}

var bareTokenPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// IsValidToken reports whether s looks like an Expo push token or a bare
// FCM/APNs token.
func IsValidToken(s string) bool {
	if strings.HasPrefix(s, "ExponentPushToken[") || strings.HasPrefix(s, "ExpoPushToken[") {
		return true
	}
	return bareTokenPattern.MatchString(s)
}

// NewMessage builds a message with the app's delivery defaults.
func NewMessage(to, title, body string, data map[string]interface{}) Message {
	if data == nil {
		data = map[string]interface{}{}
	}
	return Message{
		To:        to,
		Title:     title,
		Body:      body,
		Data:      data,
		Sound:     "default",
		Priority:  "high",
		ChannelID: "remindersNotificationChannel",
	}
}
