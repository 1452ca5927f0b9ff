package repository

import (
	"context"

	"telegram-shop-bot/internal/domain/model"
)

// ConversationState is everything persisted for one chat: the state tag and
// the session scratch data the next handler may depend on. Keeping them in a
// single record means a restart cannot separate a pending cart from its tag.
type ConversationState struct {
	Tag     model.StateTag `json:"tag"`
	Session *model.Session `json:"session"`
}

// StateRepository persists conversation state keyed by chat id.
type StateRepository interface {
	// Get returns the persisted state, or domain.ErrUnknownConversation when
	// the chat has never been seen.
	Get(ctx context.Context, chatID int64) (*ConversationState, error)
	Set(ctx context.Context, chatID int64, state *ConversationState) error
}
