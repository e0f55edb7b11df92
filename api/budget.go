package api

import (
	"time"

	"protrack/middleware"
	"protrack/service"
	"protrack/timemath"

	"github.com/gin-gonic/gin"
)

// BudgetHandler 月度预算处理器
type BudgetHandler struct {
	tracker *service.Tracker
}

// NewBudgetHandler 创建预算处理器
func NewBudgetHandler(tracker *service.Tracker) *BudgetHandler {
	return &BudgetHandler{tracker: tracker}
}

// SetBudgetRequest 设置预算请求
type SetBudgetRequest struct {
	Amount *float64 `json:"amount" binding:"required,gte=0" example:"30000"`
}

// yearMonth 解析 year_month 参数，缺省为当前月份
func yearMonth(c *gin.Context, tracker *service.Tracker) (int, time.Month, bool) {
	s := c.Query("year_month")
	if s == "" {
		today := tracker.Today()
		return today.Year(), today.Month(), true
	}
	year, month, ok := timemath.ParseMonthKey(s)
	if !ok {
		BadRequest(c, "year_month格式错误，应为：2024-01")
		return 0, 0, false
	}
	return year, month, true
}

// Get 获取预算及当月评估
// @Summary 获取月度预算
// @Description 返回预算金额以及指定月份（默认当月）的支出、余额、百分比和状态（NoBudget/Ok/Warning/OverLimit）
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param year_month query string false "年月 (2024-06)，默认当月"
// @Success 200 {object} Response{data=service.BudgetView} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/budget [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	year, month, ok := yearMonth(c, h.tracker)
	if !ok {
		return
	}

	view, err := h.tracker.MonthBudget(c.Request.Context(), middleware.GetCurrentUserID(c), year, month)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, view)
}

// Set 设置预算
// @Summary 设置月度预算
// @Description 设置（或覆盖）每月预算金额，0 表示不设预算。当月预算状态升级时会发送提醒。
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetBudgetRequest true "预算金额"
// @Success 200 {object} Response{data=service.BudgetView} "设置成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/budget [put]
func (h *BudgetHandler) Set(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	ctx := c.Request.Context()
	err := h.tracker.WatchBudget(ctx, userID, middleware.GetCurrentEmail(c), func() error {
		return h.tracker.Store().SaveBudget(ctx, userID, *req.Amount)
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "设置预算失败"))
		return
	}

	today := h.tracker.Today()
	view, err := h.tracker.MonthBudget(ctx, userID, today.Year(), today.Month())
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	SuccessWithMessage(c, "预算已更新", view)
}
