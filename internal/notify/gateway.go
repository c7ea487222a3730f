package notify

import "context"

// Button is one actionable affordance attached to a message. Data is
// the callback payload delivered back when the button is pressed.
type Button struct {
	Text string
	Data string
}

// Gateway abstracts the chat transport used to reach customers and the
// staff channel. The core depends on this contract only, not on the
// transport behind it.
type Gateway interface {
	Send(ctx context.Context, chatID int64, text string, buttons [][]Button) error
	SendPhoto(ctx context.Context, chatID int64, photoRef, caption string) error
}
