package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/decoteen/orderdesk/internal/notify"
)

// Client sends messages through the Bot API. Implements notify.Gateway.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID      int64        `json:"chat_id"`
	Text        string       `json:"text"`
	ReplyMarkup *replyMarkup `json:"reply_markup,omitempty"`
}

type sendPhotoRequest struct {
	ChatID  int64  `json:"chat_id"`
	Photo   string `json:"photo"`
	Caption string `json:"caption,omitempty"`
}

// apiResponse mirrors the Bot API result envelope.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// NewClient creates a Bot API client with default timeout.
func NewClient(baseURL, token string, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse bot api url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("bot api url must be absolute")
	}
	return &Client{
		baseURL: parsed,
		token:   token,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Send delivers a text message with optional inline buttons.
func (c *Client) Send(ctx context.Context, chatID int64, text string, buttons [][]notify.Button) error {
	payload := sendMessageRequest{ChatID: chatID, Text: text}
	if len(buttons) > 0 {
		markup := &replyMarkup{}
		for _, row := range buttons {
			var line []inlineButton
			for _, b := range row {
				line = append(line, inlineButton{Text: b.Text, CallbackData: b.Data})
			}
			markup.InlineKeyboard = append(markup.InlineKeyboard, line)
		}
		payload.ReplyMarkup = markup
	}
	return c.call(ctx, "sendMessage", payload)
}

// SendPhoto delivers an image already known to the transport by its
// file reference, with a caption.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoRef, caption string) error {
	return c.call(ctx, "sendPhoto", sendPhotoRequest{ChatID: chatID, Photo: photoRef, Caption: caption})
}

func (c *Client) call(ctx context.Context, method string, payload any) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, fmt.Sprintf("bot%s", c.token), method)

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var data apiResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("bot api: unexpected response %s", resp.Status)
	}
	if !data.OK {
		c.logger.Error("bot api call failed",
			slog.String("method", method),
			slog.Int("status", resp.StatusCode),
			slog.String("description", data.Description))
		return fmt.Errorf("bot api %s: %s", method, data.Description)
	}
	return nil
}
