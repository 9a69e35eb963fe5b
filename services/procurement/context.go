package procurement

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const contextPrefix = "procurement:ctx:"

// AgentContext is the conversation state shared by the agents while an RFQ
// or order thread is open.
type AgentContext struct {
	ContextID string    `json:"contextId"`
	RFQID     string    `json:"rfqId,omitempty"`
	OrderID   string    `json:"orderId,omitempty"`
	LastEvent string    `json:"lastEvent,omitempty"`
	Notes     []string  `json:"notes,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContextStore keeps agent context in Redis with a TTL, so stale threads
// expire on their own.
type ContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewContextStore(client *redis.Client, ttl time.Duration) *ContextStore {
	return &ContextStore{client: client, ttl: ttl}
}

func (s *ContextStore) Get(ctx context.Context, contextID string) (*AgentContext, error) {
	data, err := s.client.Get(ctx, contextPrefix+contextID).Result()
	if err == redis.Nil {
		return &AgentContext{ContextID: contextID}, nil
	}
	if err != nil {
		return nil, err
	}
	var ac AgentContext
	if err := json.Unmarshal([]byte(data), &ac); err != nil {
		return nil, err
	}
	return &ac, nil
}

func (s *ContextStore) Set(ctx context.Context, ac *AgentContext) error {
	ac.UpdatedAt = time.Now().UTC()
	b, err := json.Marshal(ac)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, contextPrefix+ac.ContextID, b, s.ttl).Err()
}

func (s *ContextStore) Clear(ctx context.Context, contextID string) error {
	return s.client.Del(ctx, contextPrefix+contextID).Err()
}
