package domain

import "errors"

var (
	// ErrUnknownState means a persisted state tag is outside the closed set.
	ErrUnknownState = errors.New("unknown conversation state")
	// ErrUnknownConversation means no state is persisted for the chat and the
	// incoming event is not a restart command.
	ErrUnknownConversation = errors.New("unknown conversation")
	// ErrNotFound is returned by the catalog backend for missing resources.
	ErrNotFound = errors.New("entity not found")
	// ErrConversationBusy means another turn for the same chat still holds
	// the conversation lock.
	ErrConversationBusy = errors.New("conversation is busy")
	// ErrTransport marks failures to send or delete a chat message.
	ErrTransport = errors.New("chat transport failure")
)
