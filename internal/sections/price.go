package sections

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"printcalc/internal/calc"
	"printcalc/internal/events"
	"printcalc/internal/notify"
	"printcalc/pkg/api"
)

type priceAPI interface {
	GetProschetPriceData(ctx context.Context, proschetID int64) ([]api.PrintComponent, []api.AdditionalWork, error)
}

// Price owns the "Цена" section. It keeps the latest component and work
// snapshots it has seen and recomputes the totals whenever either one
// arrives. Snapshots carry no sequence numbers: whichever event lands last
// wins. While no proschet is selected incoming snapshots are buffered
// silently and the totals are left untouched.
type Price struct {
	mu       sync.Mutex
	api      priceAPI
	bus      *events.Bus
	notifier *notify.Notifier
	logger   *zap.Logger

	proschetID int64
	title      string
	components []api.PrintComponent
	works      []api.AdditionalWork
	summary    calc.PriceSummary
	lastErr    *retryState
}

func NewPrice(apiClient priceAPI, bus *events.Bus, notifier *notify.Notifier, logger *zap.Logger) *Price {
	p := &Price{
		api:      apiClient,
		bus:      bus,
		notifier: notifier,
		logger:   logger,
	}

	events.On(bus, func(ctx context.Context, ev events.PrintComponentsUpdated) {
		p.mu.Lock()
		p.components = ev.Components
		selected := p.proschetID != 0
		p.mu.Unlock()
		if selected {
			p.recompute(ctx)
		}
	})
	events.On(bus, func(ctx context.Context, ev events.AdditionalWorksUpdated) {
		p.mu.Lock()
		p.works = ev.Works
		selected := p.proschetID != 0
		p.mu.Unlock()
		if selected {
			p.recompute(ctx)
		}
	})
	events.On(bus, func(ctx context.Context, ev events.ProschetSelected) {
		p.mu.Lock()
		changed := p.proschetID != ev.ProschetID
		p.proschetID = ev.ProschetID
		p.title = ev.Title
		p.mu.Unlock()
		if changed {
			p.UpdateForProschet(ctx, ev.ProschetID, ev.Title)
		}
	})
	events.On(bus, func(ctx context.Context, ev events.ProschetDeselected) {
		p.Reset()
	})

	return p
}

// UpdateForProschet reloads both snapshots from the server and recomputes.
func (p *Price) UpdateForProschet(ctx context.Context, proschetID int64, title string) {
	components, works, err := p.api.GetProschetPriceData(ctx, proschetID)
	if err != nil {
		p.mu.Lock()
		p.lastErr = &retryState{proschetID: proschetID, title: title}
		p.mu.Unlock()
		p.notifier.Error("Не удалось загрузить данные для расчёта")
		p.logger.Error("Failed to load price data",
			zap.Int64("proschet_id", proschetID),
			zap.Error(err))
		return
	}

	p.mu.Lock()
	p.proschetID = proschetID
	p.title = title
	p.components = components
	p.works = works
	p.lastErr = nil
	p.mu.Unlock()

	p.recompute(ctx)
}

// Retry re-runs the last failed load.
func (p *Price) Retry(ctx context.Context) bool {
	p.mu.Lock()
	last := p.lastErr
	p.mu.Unlock()
	if last == nil {
		return false
	}
	p.UpdateForProschet(ctx, last.proschetID, last.title)
	return true
}

func (p *Price) Reset() {
	p.mu.Lock()
	p.proschetID = 0
	p.title = ""
	p.components = nil
	p.works = nil
	p.summary = calc.PriceSummary{}
	p.lastErr = nil
	p.mu.Unlock()
}

// Summary returns the current totals.
func (p *Price) Summary() calc.PriceSummary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.summary
}

func (p *Price) recompute(ctx context.Context) {
	p.mu.Lock()
	if p.proschetID == 0 {
		p.mu.Unlock()
		return
	}
	p.summary = calc.Totals(p.components, p.works)
	proschetID := p.proschetID
	summary := p.summary
	p.mu.Unlock()

	p.logger.Debug("Price totals recomputed",
		zap.Int64("proschet_id", proschetID),
		zap.Float64("total", summary.TotalPrice))

	p.bus.Publish(ctx, events.PriceUpdated{
		ProschetID:           proschetID,
		PrintComponentsTotal: summary.PrintComponentsTotal,
		AdditionalWorksTotal: summary.AdditionalWorksTotal,
		TotalPrice:           summary.TotalPrice,
	})
}
