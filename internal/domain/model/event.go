package model

import (
	"strconv"
	"strings"
)

// EventKind distinguishes the two inbound event shapes.
type EventKind string

const (
	// EventMessage is a typed text message.
	EventMessage EventKind = "message"
	// EventCallback is an inline button press carrying an opaque token.
	EventCallback EventKind = "callback"
)

// RestartCommand resets the conversation to the product menu.
const RestartCommand = "/start"

// Event is one inbound user action, already stripped of transport detail.
type Event struct {
	Kind   EventKind
	ChatID int64

	// Text is set for EventMessage, Token for EventCallback.
	Text  string
	Token string

	// MessageID is the message the event originated from. For button presses
	// this is the message holding the keyboard, so handlers can delete it.
	MessageID int

	// Sender profile fields, used to synthesize a customer name at checkout.
	FirstName string
	LastName  string
	Username  string
}

// Input is the raw user input regardless of event shape.
func (e *Event) Input() string {
	if e.Kind == EventCallback {
		return e.Token
	}
	return e.Text
}

// IsRestart reports whether the raw input is the restart command, whichever
// shape it arrived in.
func (e *Event) IsRestart() bool {
	return strings.TrimSpace(e.Input()) == RestartCommand
}

// CustomerName builds a display name for the commerce backend from whatever
// profile fields are present, suffixed with the chat id to keep it unique.
func (e *Event) CustomerName() string {
	parts := make([]string, 0, 3)
	if e.FirstName != "" {
		parts = append(parts, e.FirstName)
	}
	if e.LastName != "" {
		parts = append(parts, e.LastName)
	}
	if len(parts) == 0 && e.Username != "" {
		parts = append(parts, e.Username)
	}
	parts = append(parts, strconv.FormatInt(e.ChatID, 10))
	return strings.Join(parts, " ")
}
