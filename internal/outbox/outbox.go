// Package outbox mirrors selected room broadcasts to Redis pub/sub channels,
// one channel per room. It gives chat and file-share events an audit stream
// without touching the broadcast hot path: the registry hands the payload
// over and a queue worker does the marshalling and the publish.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"collab-app-backend/internal/queue"
)

const publishTimeout = 5 * time.Second

type record struct {
	Event     string `json:"event"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// Publisher implements room.Outbox over Redis pub/sub.
type Publisher struct {
	client *redis.Client
	queue  *queue.Manager
}

func NewPublisher(addr, password string, q *queue.Manager) *Publisher {
	return &Publisher{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		}),
		queue: q,
	}
}

// Publish enqueues the mirror write and returns immediately. A full queue
// drops the record; the live broadcast already happened and the mirror is
// best effort.
func (p *Publisher) Publish(roomID, event string, payload any) {
	enqueued := p.queue.TryEnqueueJob(queue.Job{
		Fn: func() error {
			return p.publish(roomID, event, payload)
		},
	})
	if !enqueued {
		log.Printf("outbox: queue full, dropping %s for room %s", event, roomID)
	}
}

func (p *Publisher) publish(roomID, event string, payload any) error {
	data, err := json.Marshal(record{
		Event:     event,
		Data:      payload,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("outbox publish: marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.client.Publish(ctx, channelFor(roomID), string(data)).Err(); err != nil {
		return fmt.Errorf("outbox publish: redis publish: %w", err)
	}
	return nil
}

func channelFor(roomID string) string {
	return "room:" + roomID
}
