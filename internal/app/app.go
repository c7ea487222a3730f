package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/decoteen/orderdesk/internal/adapter/hesabfa"
	"github.com/decoteen/orderdesk/internal/config"
	"github.com/decoteen/orderdesk/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewOrderDeskFacade,
		newHTTPServer,
		newInvoicer,
		newReminderDispatcher,
		func(client hesabfa.Client) InvoicingBridge { return client },
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *OrderDeskFacade
	Config *config.Config
	Logger *slog.Logger
}

func newInvoicer(p workerParams) *worker.Invoicer {
	return worker.NewInvoicer(
		p.Facade,
		p.Config.OutboxInterval,
		p.Config.OutboxBatch,
		p.Config.OutboxAttempts,
		p.Config.OutboxWorkers,
		p.Logger,
	)
}

func newReminderDispatcher(p workerParams) *worker.ReminderDispatcher {
	return worker.NewReminderDispatcher(
		p.Facade,
		p.Config.ReminderInterval,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Invoicer   *worker.Invoicer
	Reminders  *worker.ReminderDispatcher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting orderdesk", slog.String("addr", p.Server.Addr))
			p.Invoicer.Start(ctx)
			p.Reminders.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Reminders.Stop()
			p.Invoicer.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("orderdesk stopped")
			return nil
		},
	})
}
