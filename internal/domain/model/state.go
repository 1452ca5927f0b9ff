package model

import (
	"fmt"

	"telegram-shop-bot/internal/domain"
)

// StateTag labels which handler processes the conversation's next event.
type StateTag string

const (
	// StateStart renders the product menu.
	StateStart StateTag = "START"
	// StateHandleMenu waits for a product or cart selection from the menu.
	StateHandleMenu StateTag = "HANDLE_MENU"
	// StateHandleDescription waits for a quantity, cart or back press on a
	// product card.
	StateHandleDescription StateTag = "HANDLE_DESCRIPTION"
	// StateHandleCart waits for item removal, pay or back presses on the cart.
	StateHandleCart StateTag = "HANDLE_CART"
	// StateWaitingEmail waits for the user to type their email address.
	StateWaitingEmail StateTag = "WAITING_EMAIL"
)

// ParseStateTag validates a persisted tag against the closed set.
func ParseStateTag(s string) (StateTag, error) {
	switch tag := StateTag(s); tag {
	case StateStart, StateHandleMenu, StateHandleDescription, StateHandleCart, StateWaitingEmail:
		return tag, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownState, s)
	}
}
