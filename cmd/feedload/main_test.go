package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		base, want string
	}{
		{"http://localhost:8375/api", "ws://localhost:8375/api/ws/feed?token=abc"},
		{"https://sportpulse.example/api/", "wss://sportpulse.example/api/ws/feed?token=abc"},
	}
	for _, tt := range tests {
		got, err := feedURL(tt.base, "abc")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
