package queue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventQueue manages pending dynamic world events per adventure.
type EventQueue struct {
	client *Client
}

func NewEventQueue(client *Client) *EventQueue {
	return &EventQueue{
		client: client,
	}
}

func queueKey(adventureID uuid.UUID) string {
	return fmt.Sprintf("dynamic-events:%s", adventureID.String())
}

// Enqueue adds a dynamic event to the end of the queue for an adventure.
func (q *EventQueue) Enqueue(ctx context.Context, adventureID uuid.UUID, event string) error {
	key := queueKey(adventureID)
	if err := q.client.rdb.RPush(ctx, key, event).Err(); err != nil {
		return fmt.Errorf("failed to enqueue dynamic event: %w", err)
	}
	return nil
}

// Dequeue removes and returns all queued dynamic events for an adventure.
func (q *EventQueue) Dequeue(ctx context.Context, adventureID uuid.UUID) ([]string, error) {
	key := queueKey(adventureID)

	events, err := q.client.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to dequeue dynamic events: %w", err)
	}
	if len(events) > 0 {
		if err := q.client.rdb.Del(ctx, key).Err(); err != nil {
			return nil, fmt.Errorf("failed to clear event queue after dequeue: %w", err)
		}
	}
	return events, nil
}

// Peek returns up to limit dynamic events without removing them.
func (q *EventQueue) Peek(ctx context.Context, adventureID uuid.UUID, limit int) ([]string, error) {
	key := queueKey(adventureID)

	end := int64(limit - 1)
	if limit <= 0 {
		end = -1
	}
	events, err := q.client.rdb.LRange(ctx, key, 0, end).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to peek dynamic events: %w", err)
	}
	return events, nil
}

// Depth returns the number of queued dynamic events for an adventure.
func (q *EventQueue) Depth(ctx context.Context, adventureID uuid.UUID) (int64, error) {
	key := queueKey(adventureID)
	depth, err := q.client.rdb.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read event queue depth: %w", err)
	}
	return depth, nil
}

// Clear removes all queued dynamic events for an adventure.
func (q *EventQueue) Clear(ctx context.Context, adventureID uuid.UUID) error {
	key := queueKey(adventureID)
	if err := q.client.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear event queue: %w", err)
	}
	return nil
}
