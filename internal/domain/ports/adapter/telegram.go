package adapter

import "context"

// InlineButton is one inline keyboard button. Data is the opaque token
// delivered back in the button-press event.
type InlineButton struct {
	Text string
	Data string
}

// ChatTransport is the outbound side of the chat platform.
type ChatTransport interface {
	SendText(ctx context.Context, chatID int64, text string, rows [][]InlineButton) error
	SendPhoto(ctx context.Context, chatID int64, imageURL, caption string, rows [][]InlineButton) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}
