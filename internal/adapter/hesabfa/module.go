package hesabfa

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/decoteen/orderdesk/internal/config"
)

// Module exposes the bookkeeping client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.HesabfaAddress, p.Config.HesabfaAPIKey, p.Logger)
}
