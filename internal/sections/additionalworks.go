package sections

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"printcalc/internal/events"
	"printcalc/internal/notify"
	"printcalc/pkg/api"
)

type additionalWorksAPI interface {
	GetProschetPriceData(ctx context.Context, proschetID int64) ([]api.PrintComponent, []api.AdditionalWork, error)
}

// AdditionalWorks owns the "Дополнительные работы" section.
type AdditionalWorks struct {
	mu       sync.Mutex
	api      additionalWorksAPI
	bus      *events.Bus
	notifier *notify.Notifier
	logger   *zap.Logger

	proschetID int64
	works      []api.AdditionalWork
	lastErr    *retryState
}

func NewAdditionalWorks(apiClient additionalWorksAPI, bus *events.Bus, notifier *notify.Notifier, logger *zap.Logger) *AdditionalWorks {
	w := &AdditionalWorks{
		api:      apiClient,
		bus:      bus,
		notifier: notifier,
		logger:   logger,
	}

	events.On(bus, func(ctx context.Context, ev events.ProschetSelected) {
		w.UpdateForProschet(ctx, ev.ProschetID, ev.Title)
	})
	events.On(bus, func(ctx context.Context, ev events.ProschetDeselected) {
		w.Reset()
	})

	return w
}

func (w *AdditionalWorks) UpdateForProschet(ctx context.Context, proschetID int64, title string) {
	_, works, err := w.api.GetProschetPriceData(ctx, proschetID)
	if err != nil {
		w.mu.Lock()
		w.lastErr = &retryState{proschetID: proschetID, title: title}
		w.mu.Unlock()
		w.notifier.Error("Не удалось загрузить дополнительные работы")
		w.logger.Error("Failed to load additional works",
			zap.Int64("proschet_id", proschetID),
			zap.Error(err))
		return
	}

	w.mu.Lock()
	w.proschetID = proschetID
	w.works = works
	w.lastErr = nil
	w.mu.Unlock()

	w.publish(ctx)
}

// Retry re-runs the last failed load.
func (w *AdditionalWorks) Retry(ctx context.Context) bool {
	w.mu.Lock()
	last := w.lastErr
	w.mu.Unlock()
	if last == nil {
		return false
	}
	w.UpdateForProschet(ctx, last.proschetID, last.title)
	return true
}

func (w *AdditionalWorks) Reset() {
	w.mu.Lock()
	w.proschetID = 0
	w.works = nil
	w.lastErr = nil
	w.mu.Unlock()
}

// Works returns a copy of the current snapshot.
func (w *AdditionalWorks) Works() []api.AdditionalWork {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]api.AdditionalWork, len(w.works))
	copy(out, w.works)
	return out
}

func (w *AdditionalWorks) publish(ctx context.Context) {
	w.mu.Lock()
	proschetID := w.proschetID
	snapshot := make([]api.AdditionalWork, len(w.works))
	copy(snapshot, w.works)
	w.mu.Unlock()

	w.bus.Publish(ctx, events.AdditionalWorksUpdated{
		ProschetID: proschetID,
		Works:      snapshot,
	})
}
