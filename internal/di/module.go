package di

import (
	"github.com/decoteen/orderdesk/internal/adapter/hesabfa"
	"github.com/decoteen/orderdesk/internal/adapter/telegram"
	"github.com/decoteen/orderdesk/internal/app"
	"github.com/decoteen/orderdesk/internal/config"
	"github.com/decoteen/orderdesk/internal/logger"
	"github.com/decoteen/orderdesk/internal/notify"
	"github.com/decoteen/orderdesk/internal/pkg/auth"
	"github.com/decoteen/orderdesk/internal/server/http/handlers"
	"github.com/decoteen/orderdesk/internal/server/http/router"
	"github.com/decoteen/orderdesk/internal/storage/postgres"
	"github.com/decoteen/orderdesk/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		telegram.Module,
		hesabfa.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(func(facade *app.OrderDeskFacade) handlers.DeskFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
