package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"protrack/middleware"
	"protrack/models"
	"protrack/schema"
	"protrack/service"

	"github.com/gin-gonic/gin"
)

// maxImportSize 导入文件大小上限
const maxImportSize = 10 << 20

// ImportHandler 旧版数据导入处理器
type ImportHandler struct {
	tracker   *service.Tracker
	validator *schema.Validator
}

// NewImportHandler 创建导入处理器
func NewImportHandler(tracker *service.Tracker, validator *schema.Validator) *ImportHandler {
	return &ImportHandler{tracker: tracker, validator: validator}
}

// ImportResult 导入结果
type ImportResult struct {
	Expenses      int  `json:"expenses"`
	TimeEntries   int  `json:"time_entries"`
	BudgetUpdated bool `json:"budget_updated"`
}

// Import 导入旧版 JSON 数据
// @Summary 导入旧版数据
// @Description 导入旧版本导出的 JSON（expenses / timeEntries / budget）。时间记录缺少 hours/minutes 时按起止时间计算，金额无法解析时按 0 处理。全部写入成功或全部失败。
// @Tags 导入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.LegacyImport true "旧版导出数据"
// @Success 200 {object} Response{data=ImportResult} "导入成功"
// @Failure 400 {object} Response{data=[]string} "数据格式错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/import [post]
func (h *ImportHandler) Import(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	body, err := c.GetRawData()
	if err != nil {
		BadRequest(c, "读取数据失败")
		return
	}

	if err := h.validator.Validate(body); err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, Response{
				Code:    http.StatusBadRequest,
				Message: "数据格式错误",
				Data:    verr.Fields,
			})
			return
		}
		BadRequest(c, SafeErrorMessage(err, "数据格式错误"))
		return
	}

	var doc models.LegacyImport
	if err := json.Unmarshal(body, &doc); err != nil {
		BadRequest(c, SafeErrorMessage(err, "数据格式错误"))
		return
	}

	expenses := make([]models.Expense, 0, len(doc.Expenses))
	for _, e := range doc.Expenses {
		expenses = append(expenses, e.ToExpense(userID))
	}
	rows := make([]models.TimeEntryRow, 0, len(doc.TimeEntries))
	for _, e := range doc.TimeEntries {
		rows = append(rows, e.ToRow(userID))
	}

	ctx := c.Request.Context()
	result := ImportResult{Expenses: len(expenses), TimeEntries: len(rows)}
	err = h.tracker.WatchBudget(ctx, userID, middleware.GetCurrentEmail(c), func() error {
		if err := h.tracker.Store().Import(ctx, expenses, rows); err != nil {
			return err
		}
		if doc.Budget != nil {
			if err := h.tracker.Store().SaveBudget(ctx, userID, doc.AmountValue()); err != nil {
				return err
			}
			result.BudgetUpdated = true
		}
		return nil
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "导入失败"))
		return
	}

	SuccessWithMessage(c, "导入成功", result)
}
