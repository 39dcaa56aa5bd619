package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	redisclient "github.com/careerpath/mentor-server-go/internal/redis"
)

const (
	HeartbeatInterval = 30 * time.Second
	clientBufferSize  = 100
)

const (
	EventSessionCreated = "session_created"
	EventSessionUpdated = "session_updated"
	EventSessionDeleted = "session_deleted"
)

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func NewEvent(eventType string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return Event{Type: eventType, Data: raw}, nil
}

// PubSub is the subset of the Redis client the broker needs.
type PubSub interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

type Client struct {
	OwnerID string
	Events  chan Event
	Done    chan struct{}
}

// Broker fans session events published on Redis out to the SSE clients
// connected to this instance. One Redis subscription is held per owner
// with at least one local client.
type Broker struct {
	redis   PubSub
	clients map[string]map[*Client]bool // ownerID -> set of clients
	subs    map[string]context.CancelFunc
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewBroker(redisClient PubSub) *Broker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Broker{
		redis:   redisClient,
		clients: make(map[string]map[*Client]bool),
		subs:    make(map[string]context.CancelFunc),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (b *Broker) Subscribe(ownerID string) *Client {
	client := &Client{
		OwnerID: ownerID,
		Events:  make(chan Event, clientBufferSize),
		Done:    make(chan struct{}),
	}

	b.mu.Lock()
	if b.clients[ownerID] == nil {
		b.clients[ownerID] = make(map[*Client]bool)
		subCtx, cancel := context.WithCancel(b.ctx)
		b.subs[ownerID] = cancel
		go b.subscribeToRedis(subCtx, ownerID)
	}
	b.clients[ownerID][client] = true
	clientCount := len(b.clients[ownerID])
	b.mu.Unlock()

	log.Info().
		Str("ownerId", ownerID).
		Int("clientCount", clientCount).
		Msg("sse client subscribed")

	return client
}

func (b *Broker) Unsubscribe(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	clients, ok := b.clients[client.OwnerID]
	if !ok || !clients[client] {
		return
	}

	delete(clients, client)
	close(client.Done)

	if len(clients) == 0 {
		delete(b.clients, client.OwnerID)
		if cancel, ok := b.subs[client.OwnerID]; ok {
			cancel()
			delete(b.subs, client.OwnerID)
		}
	}

	log.Info().
		Str("ownerId", client.OwnerID).
		Int("clientCount", len(clients)).
		Msg("sse client unsubscribed")
}

// Publish sends event to every instance holding clients for ownerID.
func (b *Broker) Publish(ctx context.Context, ownerID string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	channel := redisclient.SessionEventsChannel(ownerID)
	return b.redis.Publish(ctx, channel, data).Err()
}

func (b *Broker) subscribeToRedis(ctx context.Context, ownerID string) {
	channel := redisclient.SessionEventsChannel(ownerID)
	pubsub := b.redis.Subscribe(ctx, channel)
	defer pubsub.Close()

	log.Debug().
		Str("ownerId", ownerID).
		Str("channel", channel).
		Msg("redis pubsub subscribed")

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Error().Err(err).Msg("failed to unmarshal event")
				continue
			}

			b.broadcast(ownerID, event)
		}
	}
}

func (b *Broker) broadcast(ownerID string, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for client := range b.clients[ownerID] {
		select {
		case client.Events <- event:
		default:
			log.Warn().
				Str("ownerId", ownerID).
				Str("eventType", event.Type).
				Msg("client event buffer full, dropping event")
		}
	}
}

func (b *Broker) Close() {
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, clients := range b.clients {
		for client := range clients {
			close(client.Done)
		}
	}
	b.clients = make(map[string]map[*Client]bool)
	b.subs = make(map[string]context.CancelFunc)
}

func (b *Broker) ClientCount(ownerID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[ownerID])
}

func (b *Broker) TotalClients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	total := 0
	for _, clients := range b.clients {
		total += len(clients)
	}
	return total
}
