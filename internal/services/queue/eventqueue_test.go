package queue

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	redisURL := "redis://" + mr.Addr()

	client, err := NewClient(redisURL, logger)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create queue client: %v", err)
	}

	return client, mr
}

func TestEventQueue_EnqueueAndDequeue(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	q := NewEventQueue(client)
	ctx := context.Background()
	adventureID := uuid.New()

	events := []string{
		"A dragon appears on the horizon",
		"The ground trembles beneath your feet",
		"A mysterious stranger approaches",
	}

	for _, event := range events {
		if err := q.Enqueue(ctx, adventureID, event); err != nil {
			t.Fatalf("Failed to enqueue event: %v", err)
		}
	}

	depth, err := q.Depth(ctx, adventureID)
	if err != nil {
		t.Fatalf("Failed to read depth: %v", err)
	}
	if depth != 3 {
		t.Errorf("Expected depth 3, got %d", depth)
	}

	dequeued, err := q.Dequeue(ctx, adventureID)
	if err != nil {
		t.Fatalf("Failed to dequeue events: %v", err)
	}
	if len(dequeued) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(dequeued))
	}
	for i, event := range events {
		if dequeued[i] != event {
			t.Errorf("Event %d: expected %q, got %q", i, event, dequeued[i])
		}
	}

	// The queue is drained by dequeue
	depth, err = q.Depth(ctx, adventureID)
	if err != nil {
		t.Fatalf("Failed to read depth: %v", err)
	}
	if depth != 0 {
		t.Errorf("Expected empty queue after dequeue, got depth %d", depth)
	}
}

func TestEventQueue_PeekDoesNotDrain(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	q := NewEventQueue(client)
	ctx := context.Background()
	adventureID := uuid.New()

	if err := q.Enqueue(ctx, adventureID, "Wolves howl in the distance"); err != nil {
		t.Fatalf("Failed to enqueue event: %v", err)
	}

	peeked, err := q.Peek(ctx, adventureID, 10)
	if err != nil {
		t.Fatalf("Failed to peek events: %v", err)
	}
	if len(peeked) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(peeked))
	}

	depth, err := q.Depth(ctx, adventureID)
	if err != nil {
		t.Fatalf("Failed to read depth: %v", err)
	}
	if depth != 1 {
		t.Errorf("Peek must not drain the queue, got depth %d", depth)
	}
}

func TestEventQueue_DequeueEmpty(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	q := NewEventQueue(client)

	events, err := q.Dequeue(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Expected no events, got %d", len(events))
	}
}

func TestEventQueue_Clear(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	q := NewEventQueue(client)
	ctx := context.Background()
	adventureID := uuid.New()

	if err := q.Enqueue(ctx, adventureID, "The bridge collapses"); err != nil {
		t.Fatalf("Failed to enqueue event: %v", err)
	}
	if err := q.Clear(ctx, adventureID); err != nil {
		t.Fatalf("Failed to clear queue: %v", err)
	}

	depth, err := q.Depth(ctx, adventureID)
	if err != nil {
		t.Fatalf("Failed to read depth: %v", err)
	}
	if depth != 0 {
		t.Errorf("Expected empty queue after clear, got depth %d", depth)
	}
}
