// Package export 消费与时间记录导出
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"protrack/models"
	"protrack/timemath"
)

// BOM UTF-8 字节序标记，便于 Excel 正确识别编码
const BOM = "\xEF\xBB\xBF"

// ErrNoData 没有可导出的记录
var ErrNoData = errors.New("no data to export")

// Table 表头与数据行
type Table struct {
	Header []string
	Rows   [][]string
}

// ExpenseTable 消费记录导出表
func ExpenseTable(expenses []models.Expense) Table {
	t := Table{Header: []string{"Date", "Category", "Amount", "Payment Mode", "Notes"}}
	for _, e := range expenses {
		t.Rows = append(t.Rows, []string{
			e.Date,
			e.Category,
			strconv.FormatFloat(e.Amount, 'f', -1, 64),
			e.PaymentMode,
			e.Notes,
		})
	}
	return t
}

// TimeEntryTable 时间记录导出表
func TimeEntryTable(entries []models.TimeEntry) Table {
	t := Table{Header: []string{"Date", "Activity", "Hours", "Minutes", "Notes"}}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{
			e.Date,
			e.Activity,
			strconv.Itoa(e.Hours),
			strconv.Itoa(e.Minutes),
			e.Notes,
		})
	}
	return t
}

// WriteCSV 写出 CSV：BOM 开头，表头不加引号，数据字段一律用双引号包裹，
// 字段内的双引号不做转义，行之间用 "\n" 分隔
func WriteCSV(w io.Writer, t Table) error {
	if len(t.Rows) == 0 {
		return ErrNoData
	}
	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, strings.Join(t.Header, ","))
	for _, row := range t.Rows {
		quoted := make([]string, len(row))
		for i, f := range row {
			quoted[i] = `"` + f + `"`
		}
		lines = append(lines, strings.Join(quoted, ","))
	}
	if _, err := io.WriteString(w, BOM+strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Filename 导出文件名：<name>_<YYYY-MM-DD>.<ext>，日期取 now 所在时区
func Filename(name, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", name, timemath.DateKey(now), ext)
}
