package sections

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"printcalc/internal/calc"
	"printcalc/internal/events"
	"printcalc/internal/notify"
)

type productAPI interface {
	RecalculateComponents(ctx context.Context, proschetID int64, circulation int) (int, string, error)
}

// Product owns the "Изделие" section: the product description and the
// circulation of the selected proschet. A circulation change here is what
// kicks off the whole recompute pipeline.
type Product struct {
	mu       sync.Mutex
	api      productAPI
	bus      *events.Bus
	notifier *notify.Notifier
	logger   *zap.Logger

	proschetID  int64
	title       string
	circulation int
}

func NewProduct(apiClient productAPI, bus *events.Bus, notifier *notify.Notifier, logger *zap.Logger) *Product {
	p := &Product{
		api:      apiClient,
		bus:      bus,
		notifier: notifier,
		logger:   logger,
	}

	events.On(bus, func(ctx context.Context, ev events.ProschetSelected) {
		p.UpdateForProschet(ctx, ev.ProschetID, ev.Title, ev.Circulation)
	})
	events.On(bus, func(ctx context.Context, ev events.ProschetDeselected) {
		p.Reset()
	})

	return p
}

func (p *Product) UpdateForProschet(ctx context.Context, proschetID int64, title string, circulation int) {
	p.mu.Lock()
	p.proschetID = proschetID
	p.title = title
	p.circulation = circulation
	p.mu.Unlock()

	p.logger.Debug("Product section updated",
		zap.Int64("proschet_id", proschetID),
		zap.Int("circulation", circulation))
}

func (p *Product) Reset() {
	p.mu.Lock()
	p.proschetID = 0
	p.title = ""
	p.circulation = 0
	p.mu.Unlock()
}

// Circulation returns the last known circulation of the selected proschet.
func (p *Product) Circulation() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.circulation
}

// SetCirculation parses a new circulation out of free display text and, if it
// actually changed, publishes the change and asks the server to recalculate
// the component prices.
func (p *Product) SetCirculation(ctx context.Context, text string) error {
	circulation, ok := calc.ExtractCirculation(text)
	if !ok {
		p.notifier.Warning("Не удалось распознать тираж")
		return nil
	}

	p.mu.Lock()
	if p.proschetID == 0 {
		p.mu.Unlock()
		p.notifier.Warning("Сначала выберите просчёт")
		return nil
	}
	if circulation == p.circulation {
		p.mu.Unlock()
		return nil
	}
	p.circulation = circulation
	proschetID := p.proschetID
	p.mu.Unlock()

	p.logger.Info("Circulation changed",
		zap.Int64("proschet_id", proschetID),
		zap.Int("circulation", circulation))

	p.bus.Publish(ctx, events.CirculationUpdated{
		ProschetID:  proschetID,
		Circulation: circulation,
	})

	p.notifier.Info("Пересчёт цен для нового тиража...")

	count, message, err := p.api.RecalculateComponents(ctx, proschetID, circulation)
	if err != nil {
		p.notifier.Error("Ошибка пересчёта компонентов")
		p.logger.Error("Component recalculation failed",
			zap.Int64("proschet_id", proschetID),
			zap.Error(err))
		return err
	}

	if message == "" {
		message = "Цены компонентов успешно пересчитаны"
	}
	p.notifier.Success(message)
	p.logger.Info("Components recalculated",
		zap.Int64("proschet_id", proschetID),
		zap.Int("updated_count", count))
	return nil
}
