package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.StateRepository = (*StateRepo)(nil)

// StateRepo persists conversation state in Redis as one JSON value per chat,
// so the tag and the session it depends on can never drift apart.
type StateRepo struct {
	client *Client
	ttl    time.Duration
}

// NewStateRepo creates the repo. ttl of zero keeps state forever.
func NewStateRepo(client *Client, ttl time.Duration) *StateRepo {
	return &StateRepo{client: client, ttl: ttl}
}

func (s *StateRepo) stateKey(chatID int64) string {
	return fmt.Sprintf("conv_state:%d", chatID)
}

func (s *StateRepo) Get(ctx context.Context, chatID int64) (*repository.ConversationState, error) {
	data, err := s.client.Get(ctx, s.stateKey(chatID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: chat %d", domain.ErrUnknownConversation, chatID)
		}
		return nil, err
	}

	var state repository.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("decode state for chat %d: %w", chatID, err)
	}
	// Reject tags outside the closed set instead of dispatching on garbage.
	if _, err := model.ParseStateTag(string(state.Tag)); err != nil {
		return nil, err
	}
	if state.Session == nil {
		state.Session = model.NewSession(chatID)
	}
	return &state, nil
}

func (s *StateRepo) Set(ctx context.Context, chatID int64, state *repository.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.stateKey(chatID), data, s.ttl)
}
