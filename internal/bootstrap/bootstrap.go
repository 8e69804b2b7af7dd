package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/misakino/cm-bridge/internal/adapters/onebot"
	"github.com/misakino/cm-bridge/internal/config"
	"github.com/misakino/cm-bridge/internal/core/usecase"
	"github.com/misakino/cm-bridge/internal/infrastructure/catalog/cm"
	"github.com/misakino/cm-bridge/internal/infrastructure/thumbnail"
	"github.com/misakino/cm-bridge/internal/observability/metrics"
)

// App wires configuration, the catalog client, the orchestrators and the
// bot transport into one runnable unit with an explicit Start/Stop
// lifecycle.
type App struct {
	cfg     config.Config
	logger  *slog.Logger
	active  bool
	Metrics *metrics.BotMetrics
	Catalog *cm.Client
	Bot     *onebot.Client
}

func New(cfg config.Config, logger *slog.Logger) *App {
	botMetrics := metrics.NewBotMetrics("botd")
	return &App{
		cfg:     cfg,
		logger:  logger,
		Metrics: botMetrics,
		Catalog: cm.New(cfg.CMBaseURL, cfg.CMAuthToken, botMetrics),
		Bot:     onebot.NewClient(cfg.OneBotURL, cfg.OneBotAccessToken, logger),
	}
}

// Start probes backend connectivity and connects the bot transport.
// Missing configuration or a failed probe leaves the integration
// disabled for the process lifetime: the bot still runs and every
// command answers a fixed inactive message. Only a transport connection
// failure is fatal.
func (a *App) Start(ctx context.Context) error {
	switch {
	case !a.cfg.Complete():
		a.logger.Error("backend url or auth token not configured, cm integration disabled")
	default:
		a.logger.Info("probing cm backend connectivity")
		if err := a.Catalog.Ping(ctx); err != nil {
			a.logger.Error("connectivity probe failed, cm integration disabled", "error", err)
		} else {
			a.active = true
		}
	}

	ingestUC := usecase.NewIngestUseCase(a.Catalog, a.Catalog.BaseURL())
	thumbs := thumbnail.New(a.Catalog, a.cfg.ThumbnailRatePerSec)
	searchUC := usecase.NewSearchUseCase(a.Catalog, thumbs, a.logger, a.Metrics)
	resolver := usecase.NewConfirmUseCase()

	handler := onebot.NewHandler(a.cfg, a.Bot, ingestUC, searchUC, resolver, a.logger, a.Metrics, a.active)
	a.Bot.OnEvent(handler.HandleEvent)

	if err := a.Bot.Connect(ctx); err != nil {
		return fmt.Errorf("connect bot transport: %w", err)
	}
	a.logger.Info("bot transport connected", "active", a.active)
	return nil
}

// Ready reports whether the backend integration is enabled.
func (a *App) Ready() bool { return a.active }

// Run blocks on the bot event loop until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	return a.Bot.Run(ctx)
}

func (a *App) Stop() {
	a.Bot.Close()
}
