package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/decoteen/orderdesk/internal/config"
)

// Module wires the notifier on top of the chat gateway.
var Module = fx.Provide(newNotifier)

type notifierParams struct {
	fx.In

	Gateway Gateway
	Config  *config.Config
	Logger  *slog.Logger
}

func newNotifier(p notifierParams) *Notifier {
	return NewNotifier(p.Gateway, p.Config.StaffChatID, p.Config.NotifyRetries, p.Logger)
}
