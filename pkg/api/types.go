package api

// Response payload shapes for the calculator backend. Every endpoint answers
// with an envelope {success: bool, ...payload | error/message}.

type ClientRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Discount    int    `json:"discount"`
	Address     string `json:"address"`
	BankDetails string `json:"bank_details"`
	HasEDO      bool   `json:"has_edo"`
}

type Contact struct {
	ID        int64  `json:"id"`
	ClientID  int64  `json:"client_id"`
	FullName  string `json:"full_name"`
	Position  string `json:"position"`
	Phone     string `json:"phone"`
	Mobile    string `json:"mobile"`
	Email     string `json:"email"`
	Comments  string `json:"comments"`
	IsPrimary bool   `json:"is_primary"`
}

type PrintComponent struct {
	ID                    int64   `json:"id"`
	Number                int     `json:"number"`
	PrinterName           string  `json:"printer_name"`
	PaperName             string  `json:"paper_name"`
	PricePerSheetPrint    float64 `json:"price_per_sheet_print"`
	PricePerSheetPaper    float64 `json:"price_per_sheet_paper"`
	SheetCount            float64 `json:"sheet_count"`
	TotalCirculationPrice float64 `json:"total_circulation_price"`
}

type AdditionalWork struct {
	ID     int64   `json:"id"`
	Number int     `json:"number"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
}

// SheetCalcParams holds the sheet-calculation inputs for one print component.
// ListCount is derived on the server, never edited directly.
type SheetCalcParams struct {
	Vyleta      int     `json:"vyleta"`
	PolosaCount int     `json:"polosa_count"`
	Color       string  `json:"color"`
	ListCount   float64 `json:"list_count"`
}

type SheetCountResult struct {
	ListCount   float64 `json:"calculated_list_count"`
	Vyleta      int     `json:"vyleta"`
	PolosaCount int     `json:"polosa_count"`
	Circulation int     `json:"circulation"`
	Formula     string  `json:"formula"`
}

type PrintPriceEntry struct {
	ID            int64   `json:"id"`
	Copies        int     `json:"copies"`
	PricePerSheet float64 `json:"price_per_sheet"`
}

type ArbitraryPriceResult struct {
	Copies                     int     `json:"arbitrary_copies"`
	PricePerSheet              float64 `json:"price_per_sheet"`
	InterpolationMethod        string  `json:"interpolation_method"`
	InterpolationMethodDisplay string  `json:"interpolation_method_display"`
}
