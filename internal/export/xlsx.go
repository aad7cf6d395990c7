package export

import (
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"electwatch/internal"
	"electwatch/internal/pipeline"
)

var xlsxHeaders = []string{
	"No.", "담당 선관위", "선거 단위", "투표율", "투표자 수", "증가",
	"총 유권자", "투표 성사 잔여 인원", "상태", "중점 단위", "비고",
}

var rowFills = map[internal.RowClass]string{
	internal.RowClosed:      "#DCFCE7",
	internal.RowNearClosing: "#FEF9C3",
}

// BuildWorkbook lays records out on the first sheet with one row per unit.
// Unknown values are left as empty cells.
func BuildWorkbook(records []internal.UnitRecord, ratio float64) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	styles := map[internal.RowClass]int{}
	for class, color := range rowFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		styles[class] = id
	}

	for i, rec := range records {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		class := pipeline.RowClassOf(rec, ratio)
		set(1, rec.SerialNumber)
		set(2, rec.Commission)
		set(3, rec.UnitName)
		set(4, derefFloat(rec.TurnoutRate))
		set(5, derefInt(rec.VotedCount))
		set(6, rec.Growth)
		set(7, derefInt(rec.TotalEligible))
		set(8, derefInt(rec.RemainingToClose))
		set(9, string(class))
		if rec.Target {
			set(10, "Y")
		}
		set(11, Remark(rec))

		if style, ok := styles[class]; ok {
			first, _ := excelize.CoordinatesToCellName(1, r)
			last, _ := excelize.CoordinatesToCellName(len(xlsxHeaders), r)
			_ = f.SetCellStyle(sheet, first, last, style)
		}
	}

	_ = f.SetColWidth(sheet, "B", "C", 24)
	return f, nil
}

// WriteXLSX streams the workbook to w.
func WriteXLSX(w io.Writer, records []internal.UnitRecord, ratio float64) error {
	f, err := BuildWorkbook(records, ratio)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func SaveXLSX(outputPath string, records []internal.UnitRecord, ratio float64) error {
	f, err := BuildWorkbook(records, ratio)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func derefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
