package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/outfit-advisor/internal/infra/config"
)

func TestRunStopsOnCancel(t *testing.T) {
	app := NewApp(&config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)), &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NotFoundHandler(),
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRunReportsListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	app := NewApp(&config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)), &http.Server{
		Addr:    ln.Addr().String(),
		Handler: http.NotFoundHandler(),
	})

	require.Error(t, app.Run(context.Background()))
}
