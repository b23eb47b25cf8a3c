package notifications

import (
	"encoding/json"
	"fmt"
)

// Feed event types.
const (
	EventPostCreated    = "post_created"
	EventPostUpdated    = "post_updated"
	EventPostDeleted    = "post_deleted"
	EventCommentCreated = "comment_created"
	// EventMessagesDropped tells a slow client it missed events and should re-fetch.
	EventMessagesDropped = "messages_dropped"
)

// Event is the envelope written to feed subscribers.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Encode renders the event as the JSON text frame sent to clients.
func (e Event) Encode() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshal %s event: %w", e.Type, err)
	}
	return string(b), nil
}
