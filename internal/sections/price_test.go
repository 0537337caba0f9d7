package sections

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printcalc/internal/events"
	"printcalc/internal/notify"
	"printcalc/pkg/api"
)

func newPriceOnly(t *testing.T, stub *stubAPI) (*Price, *events.Bus) {
	t.Helper()
	logger := zap.NewNop()
	bus := events.NewBus(logger)
	p := NewPrice(stub, bus, notify.New(logger, time.Minute), logger)
	return p, bus
}

func TestPrice_BuffersWhileDeselected(t *testing.T) {
	p, bus := newPriceOnly(t, defaultStub())
	ctx := context.Background()

	// Snapshots arrive before any proschet is selected: buffered, no totals.
	bus.Publish(ctx, events.PrintComponentsUpdated{
		ProschetID: 1,
		Components: []api.PrintComponent{{ID: 1, TotalCirculationPrice: 500}},
	})
	bus.Publish(ctx, events.AdditionalWorksUpdated{
		ProschetID: 1,
		Works:      []api.AdditionalWork{{ID: 2, Price: 100}},
	})
	assert.Zero(t, p.Summary().TotalPrice)
}

func TestPrice_LastEventWins(t *testing.T) {
	stub := defaultStub()
	p, bus := newPriceOnly(t, stub)
	ctx := context.Background()

	bus.Publish(ctx, events.ProschetSelected{ProschetID: 1, Title: "Буклеты", Circulation: 1000})
	require.NotZero(t, p.Summary().TotalPrice)

	// Two component snapshots in a row: the later one is authoritative.
	bus.Publish(ctx, events.PrintComponentsUpdated{
		ProschetID: 1,
		Components: []api.PrintComponent{{ID: 1, TotalCirculationPrice: 500}},
	})
	bus.Publish(ctx, events.PrintComponentsUpdated{
		ProschetID: 1,
		Components: []api.PrintComponent{{ID: 1, TotalCirculationPrice: 700}},
	})

	summary := p.Summary()
	assert.Equal(t, 700.0, summary.PrintComponentsTotal)
	assert.Equal(t, 300.0, summary.AdditionalWorksTotal)
	assert.Equal(t, 1000.0, summary.TotalPrice)
}

func TestPrice_PublishesPriceUpdated(t *testing.T) {
	stub := defaultStub()
	p, bus := newPriceOnly(t, stub)
	ctx := context.Background()

	var last events.PriceUpdated
	events.On(bus, func(ctx context.Context, ev events.PriceUpdated) {
		last = ev
	})

	bus.Publish(ctx, events.ProschetSelected{ProschetID: 1, Title: "Буклеты", Circulation: 1000})

	require.NotZero(t, last.TotalPrice)
	assert.EqualValues(t, 1, last.ProschetID)
	assert.Equal(t, p.Summary().TotalPrice, last.TotalPrice)
}

func TestPrice_ResetOnDeselect(t *testing.T) {
	stub := defaultStub()
	p, bus := newPriceOnly(t, stub)
	ctx := context.Background()

	bus.Publish(ctx, events.ProschetSelected{ProschetID: 1, Title: "Буклеты", Circulation: 1000})
	require.NotZero(t, p.Summary().TotalPrice)

	bus.Publish(ctx, events.ProschetDeselected{})
	assert.Zero(t, p.Summary().TotalPrice)
}

func TestPrice_ExportInvoice(t *testing.T) {
	stub := defaultStub()
	p, bus := newPriceOnly(t, stub)
	ctx := context.Background()

	// No selection: nothing to export.
	_, err := p.ExportInvoice(t.TempDir())
	require.Error(t, err)

	bus.Publish(ctx, events.ProschetSelected{ProschetID: 1, Title: "Буклеты", Circulation: 1000})

	path, err := p.ExportInvoice(t.TempDir())
	require.NoError(t, err)
	assert.FileExists(t, path)
}
