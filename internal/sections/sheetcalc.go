package sections

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"printcalc/internal/calc"
	"printcalc/internal/events"
	"printcalc/internal/notify"
	"printcalc/pkg/api"
)

type sheetCalcAPI interface {
	GetSheetCalc(ctx context.Context, componentID int64) (*api.SheetCalcParams, error)
	SaveSheetCalc(ctx context.Context, componentID int64, params api.SheetCalcParams) (*api.SheetCalcParams, error)
	CalculateSheetCount(ctx context.Context, componentID int64, circulation int) (*api.SheetCountResult, error)
}

// SheetCalc owns the "Вычисления листов" section: the bleed, panel count and
// color parameters of the selected print component, and the list count
// derived from them. The list count is never edited directly — it always
// reflects the latest known circulation.
type SheetCalc struct {
	mu       sync.Mutex
	api      sheetCalcAPI
	bus      *events.Bus
	notifier *notify.Notifier
	logger   *zap.Logger

	proschetID      int64
	componentID     int64
	componentNumber int
	circulation     int
	params          api.SheetCalcParams
	lastFormula     string
	lastCalculated  time.Time
}

func NewSheetCalc(apiClient sheetCalcAPI, bus *events.Bus, notifier *notify.Notifier, logger *zap.Logger) *SheetCalc {
	s := &SheetCalc{
		api:      apiClient,
		bus:      bus,
		notifier: notifier,
		logger:   logger,
	}

	events.On(bus, func(ctx context.Context, ev events.ProschetSelected) {
		s.mu.Lock()
		s.resetComponentLocked()
		s.proschetID = ev.ProschetID
		s.circulation = ev.Circulation
		s.mu.Unlock()
	})
	events.On(bus, func(ctx context.Context, ev events.ProschetDeselected) {
		s.Reset()
	})
	events.On(bus, func(ctx context.Context, ev events.PrintComponentSelected) {
		s.selectComponent(ctx, ev)
	})
	events.On(bus, func(ctx context.Context, ev events.PrintComponentDeselected) {
		s.mu.Lock()
		s.resetComponentLocked()
		s.mu.Unlock()
	})
	events.On(bus, func(ctx context.Context, ev events.CirculationUpdated) {
		s.onCirculationUpdated(ctx, ev)
	})

	return s
}

func (s *SheetCalc) Reset() {
	s.mu.Lock()
	s.resetComponentLocked()
	s.proschetID = 0
	s.circulation = 0
	s.mu.Unlock()
}

func (s *SheetCalc) resetComponentLocked() {
	s.componentID = 0
	s.componentNumber = 0
	s.params = api.SheetCalcParams{}
	s.lastFormula = ""
	s.lastCalculated = time.Time{}
}

// Params returns the current sheet-calc parameters.
func (s *SheetCalc) Params() api.SheetCalcParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// LastFormula returns the formula applied by the most recent recompute.
func (s *SheetCalc) LastFormula() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFormula
}

// LastCalculated returns when the list count was last recomputed.
func (s *SheetCalc) LastCalculated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCalculated
}

// Confirm asks the server to recompute the sheet count for the current
// component and circulation. The server's count and formula echo replace the
// local ones; a mismatch would mean the parameters drifted, so the fresh
// value is republished either way.
func (s *SheetCalc) Confirm(ctx context.Context) error {
	s.mu.Lock()
	componentID := s.componentID
	circulation := s.circulation
	s.mu.Unlock()

	if componentID == 0 {
		s.notifier.Warning("Сначала выберите печатный компонент")
		return nil
	}
	if circulation <= 0 {
		s.notifier.Warning("Сначала выберите просчёт")
		return nil
	}

	result, err := s.api.CalculateSheetCount(ctx, componentID, circulation)
	if err != nil {
		s.notifier.Error("Не удалось рассчитать количество листов")
		s.logger.Error("Server sheet-count calculation failed",
			zap.Int64("component_id", componentID),
			zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.params.ListCount = result.ListCount
	s.params.PolosaCount = result.PolosaCount
	s.params.Vyleta = result.Vyleta
	s.lastFormula = result.Formula
	s.lastCalculated = time.Now()
	s.mu.Unlock()

	s.bus.Publish(ctx, events.SheetCountUpdated{
		ComponentID: componentID,
		ListCount:   result.ListCount,
	})
	return nil
}

func (s *SheetCalc) selectComponent(ctx context.Context, ev events.PrintComponentSelected) {
	params, err := s.api.GetSheetCalc(ctx, ev.ComponentID)
	if err != nil {
		s.notifier.Error("Не удалось загрузить параметры вычисления листов")
		s.logger.Error("Failed to load sheet-calc parameters",
			zap.Int64("component_id", ev.ComponentID),
			zap.Error(err))
		return
	}

	s.mu.Lock()
	s.componentID = ev.ComponentID
	s.componentNumber = ev.Number
	if ev.ProschetID != 0 {
		s.proschetID = ev.ProschetID
	}
	s.params = *params
	s.mu.Unlock()

	s.logger.Debug("Sheet-calc section bound to component",
		zap.Int64("component_id", ev.ComponentID),
		zap.Int("polosa_count", params.PolosaCount),
		zap.Int("vyleta", params.Vyleta))
}

// SetParameters applies new sheet-calc inputs, persists them, and recomputes
// the list count for the current circulation. Rejected inputs never reach the
// section state: the last valid parameters stay in place so later
// circulation changes keep recomputing.
func (s *SheetCalc) SetParameters(ctx context.Context, polosaCount, vyleta int, color string) error {
	if err := calc.ValidateSheetParams(polosaCount, vyleta); err != nil {
		s.notifier.Error(err.Error())
		return err
	}

	s.mu.Lock()
	if s.componentID == 0 {
		s.mu.Unlock()
		s.notifier.Warning("Сначала выберите печатный компонент")
		return nil
	}
	prev := s.params
	s.params.PolosaCount = polosaCount
	s.params.Vyleta = vyleta
	s.params.Color = color
	s.mu.Unlock()

	if err := s.recompute(ctx); err != nil {
		s.mu.Lock()
		s.params = prev
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *SheetCalc) onCirculationUpdated(ctx context.Context, ev events.CirculationUpdated) {
	s.mu.Lock()
	if s.componentID == 0 || s.proschetID != ev.ProschetID {
		s.mu.Unlock()
		return
	}
	s.circulation = ev.Circulation
	componentID := s.componentID
	s.mu.Unlock()

	if err := s.recompute(ctx); err != nil {
		s.logger.Warn("Sheet-count recompute failed after circulation change",
			zap.Int64("component_id", componentID),
			zap.Int("circulation", ev.Circulation),
			zap.Error(err))
	}
}

// recompute derives the list count, persists it, and tells the component
// section about the fresh value.
func (s *SheetCalc) recompute(ctx context.Context) error {
	s.mu.Lock()
	componentID := s.componentID
	circulation := s.circulation
	params := s.params
	s.mu.Unlock()

	if componentID == 0 {
		return nil
	}
	if circulation <= 0 {
		s.logger.Debug("Skipping sheet-count recompute, no circulation",
			zap.Int64("component_id", componentID))
		return nil
	}

	listCount, err := calc.SheetCount(circulation, params.PolosaCount, params.Vyleta)
	if err != nil {
		s.notifier.Error(err.Error())
		return err
	}
	listCount = calc.Round2(listCount)
	params.ListCount = listCount

	saved, err := s.api.SaveSheetCalc(ctx, componentID, params)
	if err != nil {
		s.notifier.Error("Не удалось сохранить параметры вычисления листов")
		s.logger.Error("Failed to save sheet-calc parameters",
			zap.Int64("component_id", componentID),
			zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.params = *saved
	s.lastFormula = calc.SheetCountFormula(circulation, params.PolosaCount, params.Vyleta)
	s.lastCalculated = time.Now()
	s.mu.Unlock()

	s.logger.Info("Sheet count recomputed",
		zap.Int64("component_id", componentID),
		zap.Int("circulation", circulation),
		zap.Float64("list_count", saved.ListCount))

	s.bus.Publish(ctx, events.SheetCountUpdated{
		ComponentID: componentID,
		ListCount:   saved.ListCount,
	})
	return nil
}
