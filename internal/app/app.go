package app

import (
	"context"

	"go.uber.org/zap"

	"printcalc/internal/config"
	"printcalc/internal/demostore"
	"printcalc/internal/edit"
	"printcalc/internal/events"
	"printcalc/internal/notify"
	"printcalc/internal/sections"
	"printcalc/internal/uistate"
	"printcalc/pkg/api"
	"printcalc/pkg/redis"
)

// App wires the calculator engine together: the event bus, the shared inline
// editor, the notifier, and every section controller. Sections only ever talk
// to each other through the bus.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	Bus      *events.Bus
	Notifier *notify.Notifier
	Editor   *edit.Editor
	Collapse *uistate.Collapse

	ProschetList    *sections.ProschetList
	Product         *sections.Product
	SheetCalc       *sections.SheetCalc
	PrintComponents *sections.PrintComponents
	AdditionalWorks *sections.AdditionalWorks
	Price           *sections.Price
	Clients         *sections.Clients
	PrintPrice      *sections.PrintPrice
	DemoProschets   *demostore.Manager
}

func New(ctx context.Context, cfg *config.Config, apiClient *api.Client, store *redis.Client, logger *zap.Logger) *App {
	bus := events.NewBus(logger)
	notifier := notify.New(logger, cfg.NotificationTTL)
	editor := edit.NewEditor(logger, notifier, cfg.BlurCommitDelay)

	a := &App{
		cfg:      cfg,
		logger:   logger,
		Bus:      bus,
		Notifier: notifier,
		Editor:   editor,
		Collapse: uistate.LoadCollapse(ctx, store, logger, cfg.RedisTTL),

		ProschetList:    sections.NewProschetList(bus, notifier, logger, cfg.ProschetPageSize),
		Product:         sections.NewProduct(apiClient, bus, notifier, logger),
		SheetCalc:       sections.NewSheetCalc(apiClient, bus, notifier, logger),
		PrintComponents: sections.NewPrintComponents(apiClient, bus, notifier, logger),
		AdditionalWorks: sections.NewAdditionalWorks(apiClient, bus, notifier, logger),
		Price:           sections.NewPrice(apiClient, bus, notifier, logger),
		Clients:         sections.NewClients(apiClient, editor, notifier, logger),
		PrintPrice:      sections.NewPrintPrice(apiClient, notifier, logger),
		DemoProschets:   demostore.NewManager(store, logger, cfg.RedisTTL),
	}

	logger.Info("Calculator engine assembled",
		zap.String("base_url", cfg.BaseURL),
		zap.Int("page_size", cfg.ProschetPageSize))
	return a
}

// Start blocks until the context is cancelled, then flushes UI state.
func (a *App) Start(ctx context.Context) error {
	a.logger.Info("Calculator engine started")
	<-ctx.Done()

	flushCtx := context.WithoutCancel(ctx)
	if err := a.Collapse.Flush(flushCtx); err != nil {
		a.logger.Warn("Failed to flush section states on shutdown", zap.Error(err))
	}

	a.logger.Info("Calculator engine stopped")
	return nil
}

// ExportInvoice writes the current price breakdown to the reports directory.
func (a *App) ExportInvoice() (string, error) {
	return a.Price.ExportInvoice(a.cfg.ReportsDir)
}
