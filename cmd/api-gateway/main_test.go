package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/cgpa-planner-api/pkg/jobs"
)

func TestShutdownClosesDependenciesAfterDraining(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var finished int32
	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(entered)
			<-release
			atomic.StoreInt32(&finished, 1)
			w.WriteHeader(http.StatusOK)
		}),
		ReadHeaderTimeout: time.Second,
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(ln) }()

	responded := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/users/u-1/summary")
		if err != nil {
			responded <- 0
			return
		}
		resp.Body.Close()
		responded <- resp.StatusCode
	}()
	<-entered

	queue := jobs.NewQueue("summary-refresh", func(context.Context, jobs.Job) error { return nil }, jobs.QueueConfig{})
	queue.Start(context.Background())

	var order []string
	var closedWhileServing int32
	closers := []func() error{
		func() error { order = append(order, "postgres"); return nil },
		func() error {
			if atomic.LoadInt32(&finished) == 0 {
				atomic.StoreInt32(&closedWhileServing, 1)
			}
			order = append(order, "redis")
			return errors.New("already closed")
		},
	}

	done := make(chan struct{})
	go func() {
		shutdown(srv, queue, closers, 5*time.Second, zap.NewNop())
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("shutdown returned while a request was in flight")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not return")
	}
	assert.Equal(t, http.StatusOK, <-responded)
	assert.Equal(t, int32(0), atomic.LoadInt32(&closedWhileServing))
	assert.Equal(t, []string{"redis", "postgres"}, order)
}
