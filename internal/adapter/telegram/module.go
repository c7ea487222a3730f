package telegram

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/decoteen/orderdesk/internal/config"
	"github.com/decoteen/orderdesk/internal/notify"
)

// Module exposes the chat gateway implementation to the fx graph.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Provide(func(client *Client) notify.Gateway { return client }),
)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (*Client, error) {
	return NewClient(p.Config.BotAPIAddress, p.Config.BotToken, p.Logger)
}
