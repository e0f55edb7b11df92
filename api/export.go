package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"protrack/export"
	"protrack/middleware"
	"protrack/service"

	"github.com/gin-gonic/gin"
)

// 导出类型
const (
	ExportExpenses    = "expenses"
	ExportTimeEntries = "time_entries"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	tracker *service.Tracker
}

// NewExportHandler 创建导出处理器
func NewExportHandler(tracker *service.Tracker) *ExportHandler {
	return &ExportHandler{tracker: tracker}
}

// sendFile 以附件形式返回文件
func sendFile(c *gin.Context, filename, contentType string, buf *bytes.Buffer) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// ExportCSV 导出 CSV
// @Summary 导出 CSV
// @Description 导出全部消费记录（Date, Category, Amount, Payment Mode, Notes）或时间记录（Date, Activity, Hours, Minutes, Notes）为带 BOM 的 UTF-8 CSV 文件
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param type query string false "导出类型" Enums(expenses,time_entries) default(expenses)
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "没有可导出的数据"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	ctx := c.Request.Context()

	var table export.Table
	kind := c.DefaultQuery("type", ExportExpenses)
	switch kind {
	case ExportExpenses:
		expenses, err := h.tracker.Store().ListExpenses(ctx, userID)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "查询数据失败"))
			return
		}
		table = export.ExpenseTable(expenses)
	case ExportTimeEntries:
		entries, err := h.tracker.Store().ListTimeEntries(ctx, userID)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "查询数据失败"))
			return
		}
		table = export.TimeEntryTable(entries)
	default:
		BadRequest(c, "type参数值错误，可选值：expenses、time_entries")
		return
	}

	buf := new(bytes.Buffer)
	if err := export.WriteCSV(buf, table); err != nil {
		if errors.Is(err, export.ErrNoData) {
			NotFound(c, "没有可导出的数据")
			return
		}
		InternalError(c, SafeErrorMessage(err, "生成 CSV 失败"))
		return
	}

	sendFile(c, export.Filename(kind, "csv", h.tracker.Today()), "text/csv; charset=utf-8", buf)
}

// ExportExcel 导出 Excel
// @Summary 导出 Excel
// @Description 导出全部消费记录与时间记录为 Excel 文件，分为 Expenses 与 Time Entries 两个工作表，各带合计行
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Excel 文件"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "没有可导出的数据"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	ctx := c.Request.Context()

	expenses, err := h.tracker.Store().ListExpenses(ctx, userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}
	entries, err := h.tracker.Store().ListTimeEntries(ctx, userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}
	if len(expenses) == 0 && len(entries) == 0 {
		NotFound(c, "没有可导出的数据")
		return
	}

	buf := new(bytes.Buffer)
	if err := export.WriteExcel(buf, expenses, entries); err != nil {
		InternalError(c, SafeErrorMessage(err, "生成 Excel 失败"))
		return
	}

	sendFile(c, export.Filename("protrack", "xlsx", h.tracker.Today()), export.ExcelContentType, buf)
}
