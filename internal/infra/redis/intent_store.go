package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/repository"
)

var _ repository.PendingIntentStore = (*IntentStore)(nil)

// luaTake reads and deletes the staged intent in one round trip, so two
// concurrent settlement attempts can never both receive it.
var luaTake = goredis.NewScript(`
local v = redis.call("GET", KEYS[1])
if v then
	redis.call("DEL", KEYS[1])
end
return v`)

// IntentStore stages the single pending payment intent per session in
// Redis. The entry carries a TTL so intents orphaned by an abandoned
// gateway visit are garbage-collected instead of lingering forever.
type IntentStore struct {
	client *Client
	ttl    time.Duration
}

func NewIntentStore(client *Client, ttl time.Duration) *IntentStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute // generous window for a gateway round trip
	}
	return &IntentStore{client: client, ttl: ttl}
}

func (s *IntentStore) key(sessionID string) string {
	return fmt.Sprintf("pending_intent:%s", sessionID)
}

func (s *IntentStore) Stage(ctx context.Context, sessionID string, intent *model.PaymentIntent) error {
	if err := intent.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(intent)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(sessionID), data, s.ttl)
}

func (s *IntentStore) Take(ctx context.Context, sessionID string) (*model.PaymentIntent, error) {
	v, err := s.client.Eval(ctx, luaTake, []string{s.key(sessionID)})
	if err != nil {
		if IsNil(err) {
			return nil, domain.ErrNoStagedIntent
		}
		return nil, err
	}
	raw, ok := v.(string)
	if !ok || raw == "" {
		return nil, domain.ErrNoStagedIntent
	}
	var intent model.PaymentIntent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}
