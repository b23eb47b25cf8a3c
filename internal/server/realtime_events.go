package server

import (
	"context"
	"log"
	"time"

	"sportpulse/internal/notifications"
)

const publishTimeout = 2 * time.Second

// publishFeedEvent fans an event out to feed subscribers. With Redis the
// event goes through pub/sub, whose subscriber delivers it locally too;
// without Redis it is broadcast to this instance's clients directly.
func (s *Server) publishFeedEvent(eventType string, payload any) {
	message, err := notifications.Event{Type: eventType, Payload: payload}.Encode()
	if err != nil {
		log.Printf("failed to encode %s event: %v", eventType, err)
		return
	}

	if s.notifier.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.notifier.PublishFeed(ctx, message); err != nil {
			log.Printf("failed to publish %s event: %v", eventType, err)
			s.hub.BroadcastAll(message)
		}
		return
	}
	s.hub.BroadcastAll(message)
}
