package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/pricemachine/internal/core"
)

// SheetName is the worksheet holding the price list.
const SheetName = "Prices"

func init() {
	Register(Format{
		Key:         "xlsx",
		Extension:   ".xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Write:       writeXLSX,
	})
}

func writeXLSX(ctx context.Context, w io.Writer, rows []core.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	unitStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("create number style: %w", err)
	}

	for i, header := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, r := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := i + 2
		values := []any{r.Rank, r.Name, r.Price, r.Weight, r.SourceFile, r.UnitPrice}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, line)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("set %s: %w", cell, err)
			}
		}
		cell, _ := excelize.CoordinatesToCellName(len(values), line)
		if err := f.SetCellStyle(SheetName, cell, cell, unitStyle); err != nil {
			return err
		}
	}

	widths := []float64{8, 40, 12, 10, 16, 14}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
