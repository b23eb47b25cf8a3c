// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"sportpulse/internal/observability"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Options configure the shared Redis client.
type Options struct {
	// URL is host:port or a redis:// URL.
	URL string
	// ClientName labels the connections on the server, normally the service name.
	ClientName string
	// PingTimeout bounds the startup check. Zero means 5s.
	PingTimeout time.Duration
}

// instrumentHook traces every command and counts failures other than misses.
type instrumentHook struct{}

// failed reports errors other than a key miss.
func failed(err error) bool {
	return err != nil && !errors.Is(err, redis.Nil)
}

func (instrumentHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (instrumentHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, span := observability.StartClientSpan(ctx, "redis", cmd.Name())
		err := next(ctx, cmd)
		if !failed(err) {
			observability.EndSpan(span, nil)
			return err
		}
		observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		observability.EndSpan(span, err)
		return err
	}
}

func (instrumentHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		ctx, span := observability.StartClientSpan(ctx, "redis", "pipeline")
		err := next(ctx, cmds)
		if !failed(err) {
			observability.EndSpan(span, nil)
			return err
		}
		observability.RedisErrors.WithLabelValues("pipeline").Inc()
		observability.EndSpan(span, err)
		return err
	}
}

func (o Options) redisOptions() (*redis.Options, error) {
	var opts *redis.Options
	if strings.Contains(o.URL, "://") {
		parsed, err := redis.ParseURL(o.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL %q: %w", o.URL, err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: o.URL}
	}
	if opts.ClientName == "" {
		opts.ClientName = o.ClientName
	}
	return opts, nil
}

// NewClient connects and pings. The client is instrumented but not installed.
func NewClient(o Options) (*redis.Client, error) {
	opts, err := o.redisOptions()
	if err != nil {
		return nil, err
	}
	c := redis.NewClient(opts)
	c.AddHook(instrumentHook{})

	timeout := o.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// InitRedis installs the shared client. When Redis is unreachable the client
// stays nil and the app runs without cache.
func InitRedis(o Options) {
	c, err := NewClient(o)
	if err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		client = nil
		return
	}
	log.Printf("Redis connected as %q", c.Options().ClientName)
	client = c
}

// GetClient returns the current Redis client instance.
func GetClient() *redis.Client {
	return client
}

// SetClient replaces the Redis client; nil disables caching.
func SetClient(c *redis.Client) {
	if c != nil {
		c.AddHook(instrumentHook{})
	}
	client = c
}
