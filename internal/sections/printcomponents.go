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

type printComponentsAPI interface {
	GetProschetPriceData(ctx context.Context, proschetID int64) ([]api.PrintComponent, []api.AdditionalWork, error)
}

// PrintComponents owns the "Печатные компоненты" section: the component list
// of the selected proschet. A fresh sheet count from the sheet-calc section
// reprices the matching component and the new snapshot is republished for the
// price section.
type PrintComponents struct {
	mu       sync.Mutex
	api      printComponentsAPI
	bus      *events.Bus
	notifier *notify.Notifier
	logger   *zap.Logger

	proschetID int64
	components []api.PrintComponent
	selectedID int64
	lastErr    *retryState
}

func NewPrintComponents(apiClient printComponentsAPI, bus *events.Bus, notifier *notify.Notifier, logger *zap.Logger) *PrintComponents {
	c := &PrintComponents{
		api:      apiClient,
		bus:      bus,
		notifier: notifier,
		logger:   logger,
	}

	events.On(bus, func(ctx context.Context, ev events.ProschetSelected) {
		c.UpdateForProschet(ctx, ev.ProschetID, ev.Title)
	})
	events.On(bus, func(ctx context.Context, ev events.ProschetDeselected) {
		c.Reset(ctx)
	})
	events.On(bus, func(ctx context.Context, ev events.SheetCountUpdated) {
		c.onSheetCountUpdated(ctx, ev)
	})

	return c
}

// UpdateForProschet loads the component list for a newly selected proschet
// and publishes the snapshot.
func (c *PrintComponents) UpdateForProschet(ctx context.Context, proschetID int64, title string) {
	components, _, err := c.api.GetProschetPriceData(ctx, proschetID)
	if err != nil {
		c.mu.Lock()
		c.lastErr = &retryState{proschetID: proschetID, title: title}
		c.mu.Unlock()
		c.notifier.Error("Не удалось загрузить печатные компоненты")
		c.logger.Error("Failed to load print components",
			zap.Int64("proschet_id", proschetID),
			zap.Error(err))
		return
	}

	c.mu.Lock()
	c.proschetID = proschetID
	c.components = components
	c.selectedID = 0
	c.lastErr = nil
	c.mu.Unlock()

	c.publish(ctx)
}

// Retry re-runs the last failed load. Returns false when there is nothing to
// retry.
func (c *PrintComponents) Retry(ctx context.Context) bool {
	c.mu.Lock()
	last := c.lastErr
	c.mu.Unlock()
	if last == nil {
		return false
	}
	c.UpdateForProschet(ctx, last.proschetID, last.title)
	return true
}

func (c *PrintComponents) Reset(ctx context.Context) {
	c.mu.Lock()
	hadSelection := c.selectedID != 0
	c.proschetID = 0
	c.components = nil
	c.selectedID = 0
	c.lastErr = nil
	c.mu.Unlock()

	if hadSelection {
		c.bus.Publish(ctx, events.PrintComponentDeselected{})
	}
}

// Components returns a copy of the current component snapshot.
func (c *PrintComponents) Components() []api.PrintComponent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.PrintComponent, len(c.components))
	copy(out, c.components)
	return out
}

// Select marks one component as the current one for the sheet-calc section.
func (c *PrintComponents) Select(ctx context.Context, componentID int64) {
	c.mu.Lock()
	var number int
	found := false
	for _, comp := range c.components {
		if comp.ID == componentID {
			number = comp.Number
			found = true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		c.logger.Warn("Select of unknown print component",
			zap.Int64("component_id", componentID))
		return
	}
	c.selectedID = componentID
	proschetID := c.proschetID
	c.mu.Unlock()

	c.bus.Publish(ctx, events.PrintComponentSelected{
		ComponentID: componentID,
		Number:      number,
		ProschetID:  proschetID,
	})
}

// Deselect clears the component selection.
func (c *PrintComponents) Deselect(ctx context.Context) {
	c.mu.Lock()
	c.selectedID = 0
	c.mu.Unlock()
	c.bus.Publish(ctx, events.PrintComponentDeselected{})
}

// SelectedID returns the id of the selected component, 0 when none.
func (c *PrintComponents) SelectedID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedID
}

func (c *PrintComponents) onSheetCountUpdated(ctx context.Context, ev events.SheetCountUpdated) {
	c.mu.Lock()
	updated := false
	for i := range c.components {
		if c.components[i].ID != ev.ComponentID {
			continue
		}
		comp := &c.components[i]
		comp.SheetCount = ev.ListCount
		comp.TotalCirculationPrice = calc.ComponentTotal(
			comp.PricePerSheetPrint,
			comp.PricePerSheetPaper,
			ev.ListCount,
		)
		updated = true
		c.logger.Info("Component repriced",
			zap.Int64("component_id", comp.ID),
			zap.Float64("list_count", ev.ListCount),
			zap.Float64("total", comp.TotalCirculationPrice))
		break
	}
	c.mu.Unlock()

	if updated {
		c.publish(ctx)
	}
}

func (c *PrintComponents) publish(ctx context.Context) {
	c.mu.Lock()
	proschetID := c.proschetID
	snapshot := make([]api.PrintComponent, len(c.components))
	copy(snapshot, c.components)
	c.mu.Unlock()

	c.bus.Publish(ctx, events.PrintComponentsUpdated{
		ProschetID: proschetID,
		Components: snapshot,
	})
}
