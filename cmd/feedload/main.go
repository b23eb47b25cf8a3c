// Package main provides a load testing tool for the live post feed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"sportpulse/internal/notifications"
	"sportpulse/pkg/client/api"
	"sportpulse/pkg/client/storage"

	"github.com/gorilla/websocket"
)

// Metrics tracks the test results
type Metrics struct {
	ConnectionsAttempted int64
	ConnectionsSuccess   int64
	ConnectionsFailed    int64
	PostsCreated         int64
	EventsReceived       int64
	EventsDropped        int64
	Errors               int64
}

func main() {
	base := flag.String("api", "http://localhost:8375/api", "API base URL")
	identifier := flag.String("user", "coach_kim", "username or email to post as")
	password := flag.String("password", "password123", "password")
	clients := flag.Int("clients", 50, "number of feed subscribers")
	interval := flag.Duration("interval", 2*time.Second, "time between posts")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	flag.Parse()

	log.Printf("Starting feed load test against %s with %d subscribers for %v", *base, *clients, *duration)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens := storage.NewTokenStore(storage.NewMemoryStore())
	gw := api.New(*base, tokens)
	session, err := gw.Login(ctx, *identifier, *password)
	if err != nil {
		log.Fatalf("Login failed: %s", api.Message(err))
	}
	if err := tokens.Save(session.Token); err != nil {
		log.Fatal(err)
	}
	log.Printf("Logged in as %s", session.User.Username)

	feedURL, err := feedURL(*base, session.Token)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(ctx, *duration)
	defer cancel()

	var (
		m  Metrics
		wg sync.WaitGroup
	)
	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			subscribe(ctx, feedURL, &m)
		}()
		time.Sleep(20 * time.Millisecond)
	}

	publish(ctx, gw, *interval, &m)
	log.Println("Waiting for subscribers to disconnect...")
	wg.Wait()

	printMetrics(&m, *clients)
}

// feedURL turns the API base into the websocket feed address.
func feedURL(base, token string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/ws/feed")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.RawQuery = url.Values{"token": {token}}.Encode()
	return u.String(), nil
}

func publish(ctx context.Context, gw *api.Client, interval time.Duration, m *Metrics) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var created []string
	defer func() {
		// remove what the run created; the run context is already done here
		cleanup, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, id := range created {
			if _, err := gw.DeletePost(cleanup, id); err != nil {
				atomic.AddInt64(&m.Errors, 1)
			}
		}
	}()

	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			post, err := gw.CreatePost(ctx, api.PostInput{
				Title:    fmt.Sprintf("Load test post %d", n),
				Text:     "Generated by feedload",
				Category: "general",
			})
			if err != nil {
				if ctx.Err() == nil {
					atomic.AddInt64(&m.Errors, 1)
				}
				continue
			}
			created = append(created, post.ID)
			atomic.AddInt64(&m.PostsCreated, 1)
		}
	}
}

func subscribe(ctx context.Context, feed string, m *Metrics) {
	atomic.AddInt64(&m.ConnectionsAttempted, 1)

	c, resp, err := websocket.DefaultDialer.DialContext(ctx, feed, nil)
	if err != nil {
		atomic.AddInt64(&m.ConnectionsFailed, 1)
		atomic.AddInt64(&m.Errors, 1)
		return
	}
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = c.Close() }()
	atomic.AddInt64(&m.ConnectionsSuccess, 1)

	go func() {
		<-ctx.Done()
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = c.Close()
	}()

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			return
		}
		var event struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(raw, &event) != nil {
			atomic.AddInt64(&m.Errors, 1)
			continue
		}
		if event.Type == notifications.EventMessagesDropped {
			atomic.AddInt64(&m.EventsDropped, 1)
			continue
		}
		atomic.AddInt64(&m.EventsReceived, 1)
	}
}

func printMetrics(m *Metrics, clients int) {
	log.Println("Test Results")
	log.Println("============")
	log.Printf("Connections Attempted: %d", atomic.LoadInt64(&m.ConnectionsAttempted))
	log.Printf("Connections Successful: %d", atomic.LoadInt64(&m.ConnectionsSuccess))
	log.Printf("Connections Failed: %d", atomic.LoadInt64(&m.ConnectionsFailed))
	log.Printf("Posts Created: %d", atomic.LoadInt64(&m.PostsCreated))
	log.Printf("Events Received: %d (expected about %d)", atomic.LoadInt64(&m.EventsReceived),
		atomic.LoadInt64(&m.PostsCreated)*int64(clients))
	log.Printf("Drop Notices: %d", atomic.LoadInt64(&m.EventsDropped))
	log.Printf("Total Errors: %d", atomic.LoadInt64(&m.Errors))
}
