package test

import (
	"context"
	"errors"
	"sync"

	"github.com/decoteen/orderdesk/internal/notify"
)

var errSendFailed = errors.New("send failed")

// SentMessage records one text message dispatched through the gateway stub.
type SentMessage struct {
	ChatID  int64
	Text    string
	Buttons [][]notify.Button
}

// SentPhoto records one photo dispatched through the gateway stub.
type SentPhoto struct {
	ChatID   int64
	PhotoRef string
	Caption  string
}

// GatewayStub records outgoing notifications and can simulate failures.
type GatewayStub struct {
	mu       sync.Mutex
	Messages []SentMessage
	Photos   []SentPhoto

	// FailSends makes the first N Send calls fail.
	FailSends int
	SendErr   error
}

// Send records the message or returns the configured failure.
func (g *GatewayStub) Send(ctx context.Context, chatID int64, text string, buttons [][]notify.Button) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailSends > 0 {
		g.FailSends--
		if g.SendErr != nil {
			return g.SendErr
		}
		return errSendFailed
	}
	g.Messages = append(g.Messages, SentMessage{ChatID: chatID, Text: text, Buttons: buttons})
	return nil
}

// SendPhoto records the photo or returns the configured failure.
func (g *GatewayStub) SendPhoto(ctx context.Context, chatID int64, photoRef, caption string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailSends > 0 {
		g.FailSends--
		if g.SendErr != nil {
			return g.SendErr
		}
		return errSendFailed
	}
	g.Photos = append(g.Photos, SentPhoto{ChatID: chatID, PhotoRef: photoRef, Caption: caption})
	return nil
}

// Sent returns a copy of the recorded messages.
func (g *GatewayStub) Sent() []SentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]SentMessage, len(g.Messages))
	copy(out, g.Messages)
	return out
}
