package model

import "strconv"

// Session is the per-conversation scratch data the handlers depend on. It is
// persisted next to the state tag so that a pending cart or customer survives
// a process restart.
type Session struct {
	ChatID     int64  `json:"chat_id"`
	ProductID  string `json:"product_id,omitempty"`
	CartID     string `json:"cart_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
}

// NewSession starts an empty session for a chat.
func NewSession(chatID int64) *Session {
	return &Session{ChatID: chatID}
}

// CartKey is the commerce-side cart identifier. One cart per conversation:
// the cart id is the chat id.
func (s *Session) CartKey() string {
	return strconv.FormatInt(s.ChatID, 10)
}

// HasCart reports whether a cart has been created for this conversation.
func (s *Session) HasCart() bool { return s.CartID != "" }

// MarkCartCreated records that the backend now holds a cart for this chat.
func (s *Session) MarkCartCreated() { s.CartID = s.CartKey() }

// ClearCart drops the cart-created marker, e.g. after the last item was
// removed.
func (s *Session) ClearCart() { s.CartID = "" }
