package events

import "printcalc/pkg/api"

// Event names. One section publishes, any number of sibling sections listen;
// sections never call each other directly.
const (
	NameProschetSelected        = "proschetSelected"
	NameProschetDeselected      = "proschetDeselected"
	NameCirculationUpdated      = "productCirculationUpdated"
	NamePrintComponentSelected  = "printComponentSelected"
	NamePrintComponentDeselected = "printComponentDeselected"
	NameSheetCountUpdated       = "sheetCountUpdated"
	NamePrintComponentsUpdated  = "printComponentsUpdated"
	NameAdditionalWorksUpdated  = "additionalWorksUpdated"
	NamePriceUpdated            = "priceUpdated"
)

type ProschetSelected struct {
	ProschetID  int64
	Title       string
	Circulation int
}

func (ProschetSelected) Name() string { return NameProschetSelected }

type ProschetDeselected struct{}

func (ProschetDeselected) Name() string { return NameProschetDeselected }

type CirculationUpdated struct {
	ProschetID  int64
	Circulation int
}

func (CirculationUpdated) Name() string { return NameCirculationUpdated }

type PrintComponentSelected struct {
	ComponentID int64
	Number      int
	ProschetID  int64
}

func (PrintComponentSelected) Name() string { return NamePrintComponentSelected }

type PrintComponentDeselected struct{}

func (PrintComponentDeselected) Name() string { return NamePrintComponentDeselected }

// SheetCountUpdated carries a freshly derived list count for one component.
type SheetCountUpdated struct {
	ComponentID int64
	ListCount   float64
}

func (SheetCountUpdated) Name() string { return NameSheetCountUpdated }

type PrintComponentsUpdated struct {
	ProschetID int64
	Components []api.PrintComponent
}

func (PrintComponentsUpdated) Name() string { return NamePrintComponentsUpdated }

type AdditionalWorksUpdated struct {
	ProschetID int64
	Works      []api.AdditionalWork
}

func (AdditionalWorksUpdated) Name() string { return NameAdditionalWorksUpdated }

type PriceUpdated struct {
	ProschetID           int64
	PrintComponentsTotal float64
	AdditionalWorksTotal float64
	TotalPrice           float64
}

func (PriceUpdated) Name() string { return NamePriceUpdated }
