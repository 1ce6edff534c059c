package utils

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromDBURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"with port", "postgresql://user:pw@db.local:6543/clash", "db.local:6543"},
		{"default port", "postgresql://user:pw@db.local/clash", "db.local:5432"},
		{"postgres scheme", "postgres://user@localhost:5432/clash?sslmode=disable", "localhost:5432"},
		{"no credentials", "postgresql://localhost/clash", "localhost:5432"},
		{"not a db url", "http://example.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromDBURL(tt.url))
		})
	}
}

func TestWaitForTCP(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()
	assert.NoError(t, WaitForTCP(context.Background(), l.Addr().String(), time.Second))
}

func TestWaitForTCP_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// port 1 on localhost is expected to refuse connections
	err := WaitForTCP(ctx, "127.0.0.1:1", time.Second)
	assert.Error(t, err)
}
