package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunRecordsStatus(t *testing.T) {
	s := New(nil)
	s.Register(Job{Name: "ok", Interval: time.Hour, Fn: func(context.Context) error { return nil }})
	s.Register(Job{Name: "bad", Interval: time.Hour, Fn: func(context.Context) error { return errors.New("nope") }})

	if err := s.Run(context.Background(), "ok"); err != nil {
		t.Fatalf("run ok: %v", err)
	}
	if err := s.Run(context.Background(), "bad"); err == nil {
		t.Fatal("expected error from failing job")
	}
	if err := s.Run(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown job")
	}

	items := s.List()
	if len(items) != 2 || items[0].Name != "bad" || items[1].Name != "ok" {
		t.Fatalf("List() = %+v", items)
	}
	if items[0].Status != StatusReject || items[0].Message != "nope" || items[0].LastRunAt == nil {
		t.Fatalf("bad job state = %+v", items[0])
	}
	if items[1].Status != StatusFulfill {
		t.Fatalf("ok job state = %+v", items[1])
	}
}

func TestStartRunsUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	s := New(nil)
	s.Register(Job{Name: "tick", Interval: 10 * time.Millisecond, Fn: func(context.Context) error {
		calls.Add(1)
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	s.Wait()

	if calls.Load() < 2 {
		t.Fatalf("job ran %d times, want at least 2", calls.Load())
	}
}
