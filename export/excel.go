package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"protrack/aggregate"
	"protrack/models"
)

// ExcelContentType xlsx 的 MIME 类型
const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	expenseSheet = "Expenses"
	timeSheet    = "Time Entries"
)

func border() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}

type styles struct {
	header, data, summary int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border(),
	}); err != nil {
		return s, err
	}
	if s.data, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border(),
	}); err != nil {
		return s, err
	}
	s.summary, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border(),
	})
	return s, err
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// writeSheet 写入表头、数据行和合计行，values 与表头一一对应
func writeSheet(f *excelize.File, sheet string, st styles, header []string, rows [][]interface{}, widths []float64, summary []interface{}) error {
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	last := len(header)
	for i, h := range header {
		if err := f.SetCellValue(sheet, cell(i+1, 1), h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, cell(1, 1), cell(last, 1), st.header); err != nil {
		return err
	}

	for r, values := range rows {
		row := r + 2
		for i, v := range values {
			if err := f.SetCellValue(sheet, cell(i+1, row), v); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(sheet, cell(1, row), cell(last, row), st.data); err != nil {
			return err
		}
	}

	summaryRow := len(rows) + 2
	for i, v := range summary {
		if v == nil {
			continue
		}
		if err := f.SetCellValue(sheet, cell(i+1, summaryRow), v); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, cell(1, summaryRow), cell(last, summaryRow), st.summary)
}

// WriteExcel 导出消费与时间记录到两个工作表，每个工作表末尾附合计行
func WriteExcel(w io.Writer, expenses []models.Expense, entries []models.TimeEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", expenseSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(timeSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("create styles: %w", err)
	}

	expenseRows := make([][]interface{}, 0, len(expenses))
	for _, e := range expenses {
		expenseRows = append(expenseRows, []interface{}{e.Date, e.Category, e.Amount, e.PaymentMode, e.Notes})
	}
	if err := writeSheet(f, expenseSheet, st,
		[]string{"Date", "Category", "Amount", "Payment Mode", "Notes"},
		expenseRows,
		[]float64{14, 16, 12, 16, 30},
		[]interface{}{"Total", nil, aggregate.TotalAmount(expenses), fmt.Sprintf("%d records", len(expenses))},
	); err != nil {
		return fmt.Errorf("write expenses: %w", err)
	}

	entryRows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		entryRows = append(entryRows, []interface{}{e.Date, e.Activity, e.StartTime, e.EndTime, e.Hours, e.Minutes, e.Duration, e.Notes})
	}
	total := aggregate.TotalMinutes(entries)
	if err := writeSheet(f, timeSheet, st,
		[]string{"Date", "Activity", "Start", "End", "Hours", "Minutes", "Duration", "Notes"},
		entryRows,
		[]float64{14, 16, 10, 10, 8, 8, 12, 30},
		[]interface{}{"Total", nil, nil, nil, total / 60, total % 60, fmt.Sprintf("%d records", len(entries))},
	); err != nil {
		return fmt.Errorf("write time entries: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
