package analytics

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"farmq-backend/internal/models"
)

const (
	sheetYieldRecords   = "YieldRecords"
	sheetCropPerf       = "CropPerformance"
	sheetRevenueByCrop  = "RevenueByCrop"
	ExportContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFileNameStamp = "2006-01-02"
)

// ExportFileName is the attachment name for a workbook generated on the given day.
func ExportFileName(day string) string {
	return fmt.Sprintf("farmq_export_%s.xlsx", day)
}

// Workbook builds the analytics export with one sheet each for the raw
// harvests, the per-crop performance and the per-crop revenue.
func Workbook(records []Record, r Report) (*excelize.File, error) {
	return buildWorkbook(excelize.NewFile(), records, r)
}

// buildWorkbook fills f and closes it when any sheet fails to write.
func buildWorkbook(f *excelize.File, records []Record, r Report) (*excelize.File, error) {
	if err := fillWorkbook(f, records, r); err != nil {
		_ = f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

func fillWorkbook(f *excelize.File, records []Record, r Report) error {
	if err := f.SetSheetName("Sheet1", sheetYieldRecords); err != nil {
		return err
	}
	rows := [][]any{{
		"Record ID", "Harvest Date", "Crop", "Field", "Field Size (ha)",
		"Yield", "Yield Unit", "Yield per Hectare",
	}}
	for _, rec := range records {
		perHectare := any("N/A")
		if rec.FieldSize > 0 {
			perHectare = cents(rec.YieldAmount / rec.FieldSize)
		}
		unit := rec.YieldUnit
		if unit == "" {
			unit = models.DefaultYieldUnit
		}
		rows = append(rows, []any{
			rec.ID, rec.HarvestDate.Format(models.DateLayout), rec.crop(), rec.FieldName,
			rec.FieldSize, rec.YieldAmount, unit, perHectare,
		})
	}
	if err := writeRows(f, sheetYieldRecords, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetCropPerf); err != nil {
		return err
	}
	rows = [][]any{{
		"Crop", "Harvest Count", "Total Area (ha)", "Average Yield", "Total Yield",
		"Average Yield per Hectare", "Total Revenue", "Total Cost", "Total Profit",
		"Profit Margin (%)", "Revenue per Hectare", "Cost per Hectare", "Profit per Hectare",
	}}
	for _, c := range cropRows(r.Crops) {
		rows = append(rows, []any{
			c.Crop, c.Count, c.TotalHectares, c.AvgYield, c.TotalYield,
			c.AvgYieldPerHectare, c.Revenue, c.Cost, c.Profit,
			c.ProfitMargin, c.RevenuePerHectare, c.CostPerHectare, c.ProfitPerHectare,
		})
	}
	if err := writeRows(f, sheetCropPerf, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetRevenueByCrop); err != nil {
		return err
	}
	rows = [][]any{{"Crop", "Year", "Total Revenue", "Total Cost", "Total Profit", "Profit Margin (%)"}}
	for _, c := range r.Crops {
		rows = append(rows, []any{
			c.Crop, r.CurrentYear, cents(c.Revenue), cents(c.Cost), cents(c.Profit), cents(c.ProfitMargin()),
		})
	}
	if err := writeRows(f, sheetRevenueByCrop, rows); err != nil {
		return err
	}

	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
