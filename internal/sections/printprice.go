package sections

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"printcalc/internal/calc"
	"printcalc/internal/edit"
	"printcalc/internal/notify"
	"printcalc/pkg/api"
)

type printPriceAPI interface {
	UpdatePrintPriceEntry(ctx context.Context, entryID int64, field, value string) (*api.PrintPriceEntry, error)
	UpdateInterpolationMethod(ctx context.Context, printerID int64, method string) error
	CalculateArbitraryPrice(ctx context.Context, printerID int64, copies int) (*api.ArbitraryPriceResult, error)
}

// PrintPrice owns the price list of one printer: the saved price points, the
// interpolation method switch, and the arbitrary-circulation estimator.
type PrintPrice struct {
	mu       sync.Mutex
	api      printPriceAPI
	notifier *notify.Notifier
	logger   *zap.Logger

	printerID int64
	entries   []api.PrintPriceEntry
	method    calc.Method
	lastCalc  *api.ArbitraryPriceResult
}

func NewPrintPrice(apiClient printPriceAPI, notifier *notify.Notifier, logger *zap.Logger) *PrintPrice {
	return &PrintPrice{
		api:      apiClient,
		notifier: notifier,
		logger:   logger,
		method:   calc.MethodLinear,
	}
}

// Load binds the section to a printer and its price points.
func (p *PrintPrice) Load(printerID int64, entries []api.PrintPriceEntry, method calc.Method) {
	if !method.Valid() {
		method = calc.MethodLinear
	}
	sorted := make([]api.PrintPriceEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Copies < sorted[j].Copies })

	p.mu.Lock()
	p.printerID = printerID
	p.entries = sorted
	p.method = method
	p.lastCalc = nil
	p.mu.Unlock()
}

// Entries returns a copy of the price points, sorted by copies ascending.
func (p *PrintPrice) Entries() []api.PrintPriceEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]api.PrintPriceEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// FilterEntries returns the price points whose copies count contains the
// query as a substring, e.g. "50" matches 50, 500 and 2500.
func (p *PrintPrice) FilterEntries(query string) []api.PrintPriceEntry {
	query = strings.TrimSpace(query)
	if query == "" {
		return p.Entries()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]api.PrintPriceEntry, 0, len(p.entries))
	for _, e := range p.entries {
		if strings.Contains(strconv.Itoa(e.Copies), query) {
			out = append(out, e)
		}
	}
	return out
}

// Method returns the active interpolation method.
func (p *PrintPrice) Method() calc.Method {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.method
}

// SetMethod switches the interpolation method. The switch is applied
// optimistically and rolled back when the server rejects it.
func (p *PrintPrice) SetMethod(ctx context.Context, method calc.Method) error {
	if !method.Valid() {
		p.notifier.Warning("Неизвестный метод интерполяции")
		return nil
	}

	p.mu.Lock()
	if method == p.method {
		p.mu.Unlock()
		return nil
	}
	previous := p.method
	p.method = method
	printerID := p.printerID
	p.mu.Unlock()

	if err := p.api.UpdateInterpolationMethod(ctx, printerID, string(method)); err != nil {
		p.mu.Lock()
		p.method = previous
		p.mu.Unlock()
		p.notifier.Error("Не удалось изменить метод интерполяции")
		p.logger.Error("Interpolation method update failed",
			zap.Int64("printer_id", printerID),
			zap.String("method", string(method)),
			zap.Error(err))
		return err
	}

	p.notifier.Success("Метод интерполяции: " + method.Display())
	return nil
}

// EntryField builds the inline-edit field for one cell of the price table.
func (p *PrintPrice) EntryField(entryID int64, field string) (*edit.Field, bool) {
	p.mu.Lock()
	var display string
	found := false
	for _, e := range p.entries {
		if e.ID == entryID {
			display = entryFieldValue(e, field)
			found = true
			break
		}
	}
	p.mu.Unlock()
	if !found {
		return nil, false
	}

	save := func(ctx context.Context, value string) (string, error) {
		updated, err := p.api.UpdatePrintPriceEntry(ctx, entryID, field, value)
		if err != nil {
			return "", err
		}
		p.mu.Lock()
		for i := range p.entries {
			if p.entries[i].ID == entryID {
				p.entries[i] = *updated
				break
			}
		}
		sort.Slice(p.entries, func(i, j int) bool { return p.entries[i].Copies < p.entries[j].Copies })
		p.mu.Unlock()
		return entryFieldValue(*updated, field), nil
	}

	return edit.NewField(field, display, entryValidator(field), save), true
}

// CalculateArbitrary estimates the per-sheet price for an arbitrary number of
// copies. A local interpolation gives an immediate estimate; the server's
// answer is canonical and replaces it.
func (p *PrintPrice) CalculateArbitrary(ctx context.Context, copies int) (*api.ArbitraryPriceResult, error) {
	if copies < 1 {
		p.notifier.Warning("Тираж должен быть не меньше 1")
		return nil, nil
	}

	p.mu.Lock()
	printerID := p.printerID
	entries := make([]api.PrintPriceEntry, len(p.entries))
	copy(entries, p.entries)
	method := p.method
	p.mu.Unlock()

	estimate, err := calc.InterpolatePrice(entries, copies, method)
	if err != nil {
		p.notifier.Warning(err.Error())
		return nil, err
	}
	p.logger.Debug("Local price estimate",
		zap.Int("copies", copies),
		zap.Float64("price_per_sheet", estimate))

	result, err := p.api.CalculateArbitraryPrice(ctx, printerID, copies)
	if err != nil {
		p.notifier.Error("Не удалось рассчитать цену")
		p.logger.Error("Arbitrary price calculation failed",
			zap.Int64("printer_id", printerID),
			zap.Int("copies", copies),
			zap.Error(err))
		return nil, err
	}

	p.mu.Lock()
	p.lastCalc = result
	p.mu.Unlock()
	return result, nil
}

// LastCalculation returns the most recent arbitrary-price result, nil when
// none was made yet.
func (p *PrintPrice) LastCalculation() *api.ArbitraryPriceResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCalc
}

func entryFieldValue(e api.PrintPriceEntry, field string) string {
	switch field {
	case "copies":
		return strconv.Itoa(e.Copies)
	case "price_per_sheet":
		return strconv.FormatFloat(e.PricePerSheet, 'f', 2, 64)
	default:
		return ""
	}
}

func entryValidator(field string) edit.Validator {
	if field == "copies" {
		return edit.Circulation
	}
	return nil
}
