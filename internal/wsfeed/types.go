// Package wsfeed broadcasts detection events to connected dashboard
// clients over WebSocket, adapted from the teacher's internal/websocket
// hub (SPEC_FULL.md §4.11).
package wsfeed

import (
	"time"

	"github.com/gorilla/websocket"
)

// EventType identifies the kind of message sent to clients.
type EventType string

const (
	// EventTypeDetection fires whenever Detect reports has_profanity=true.
	EventTypeDetection EventType = "detection"
	// EventTypeConnection reports a client joining or leaving.
	EventTypeConnection EventType = "connection"
)

// Event is the envelope every message to a client is wrapped in.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// DetectionEvent reports that a piece of text was flagged. Only a hash of
// the text is carried, never the raw content, matching the privacy
// posture of the original corpus.
type DetectionEvent struct {
	TextHash     string `json:"text_hash"`
	LanguageCode string `json:"language_code"`
	MatchCount   int    `json:"match_count"`
	ProcessingMS float64 `json:"processing_ms"`
}

// ConnectionEvent reports a client joining or leaving the feed.
type ConnectionEvent struct {
	Action   string `json:"action"` // "connected", "disconnected"
	ClientID string `json:"client_id"`
	ClientIP string `json:"client_ip"`
}

// Client represents one connected WebSocket client.
type Client struct {
	ID          string
	Conn        *websocket.Conn
	Send        chan Event
	ConnectedAt time.Time
	IP          string
}
