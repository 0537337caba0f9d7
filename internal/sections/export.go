package sections

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportInvoice writes the current price breakdown of the selected proschet
// to an .xlsx file under dir and returns the file path.
func (p *Price) ExportInvoice(dir string) (string, error) {
	p.mu.Lock()
	proschetID := p.proschetID
	title := p.title
	components := make([]Component, 0, len(p.components))
	for _, c := range p.components {
		components = append(components, Component{
			Number:  c.Number,
			Printer: c.PrinterName,
			Paper:   c.PaperName,
			Sheets:  c.SheetCount,
			Total:   c.TotalCirculationPrice,
		})
	}
	works := make([]Work, 0, len(p.works))
	for _, w := range p.works {
		works = append(works, Work{Number: w.Number, Title: w.Title, Price: w.Price})
	}
	summary := p.summary
	p.mu.Unlock()

	if proschetID == 0 {
		return "", fmt.Errorf("no proschet selected")
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet("Invoice")
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	f.SetCellValue("Invoice", "A1", "Просчёт")
	f.SetCellValue("Invoice", "B1", proschetID)
	f.SetCellValue("Invoice", "A2", "Изделие")
	f.SetCellValue("Invoice", "B2", title)
	f.SetCellValue("Invoice", "A3", "Дата")
	f.SetCellValue("Invoice", "B3", time.Now().Format("2006-01-02 15:04"))

	row := 5
	f.SetCellValue("Invoice", fmt.Sprintf("A%d", row), "Печатные компоненты")
	row++
	for col, header := range []string{"№", "Печатная машина", "Бумага", "Листов", "Стоимость"} {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		f.SetCellValue("Invoice", cell, header)
	}
	row++
	for _, c := range components {
		data := []interface{}{c.Number, c.Printer, c.Paper, c.Sheets, c.Total}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue("Invoice", cell, value)
		}
		row++
	}

	row++
	f.SetCellValue("Invoice", fmt.Sprintf("A%d", row), "Дополнительные работы")
	row++
	for col, header := range []string{"№", "Название", "Стоимость"} {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		f.SetCellValue("Invoice", cell, header)
	}
	row++
	for _, w := range works {
		data := []interface{}{w.Number, w.Title, w.Price}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue("Invoice", cell, value)
		}
		row++
	}

	row++
	f.SetCellValue("Invoice", fmt.Sprintf("A%d", row), "Компоненты, итого")
	f.SetCellValue("Invoice", fmt.Sprintf("B%d", row), summary.PrintComponentsTotal)
	row++
	f.SetCellValue("Invoice", fmt.Sprintf("A%d", row), "Работы, итого")
	f.SetCellValue("Invoice", fmt.Sprintf("B%d", row), summary.AdditionalWorksTotal)
	row++
	f.SetCellValue("Invoice", fmt.Sprintf("A%d", row), "Итоговая цена")
	f.SetCellValue("Invoice", fmt.Sprintf("B%d", row), summary.TotalPrice)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle("Invoice", "A1", fmt.Sprintf("A%d", row), style)

	f.SetActiveSheet(index)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	filename := fmt.Sprintf("proschet_%d_%s.xlsx", proschetID, time.Now().Format("20060102_1504"))
	path := filepath.Join(dir, filename)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}

	p.logger.Info("Invoice exported",
		zap.Int64("proschet_id", proschetID),
		zap.String("path", path))
	return path, nil
}

// Component and Work are the flattened invoice rows.
type Component struct {
	Number  int
	Printer string
	Paper   string
	Sheets  float64
	Total   float64
}

type Work struct {
	Number int
	Title  string
	Price  float64
}
