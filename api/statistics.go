package api

import (
	"protrack/middleware"
	"protrack/service"

	"github.com/gin-gonic/gin"
)

// StatisticsHandler 概览与统计处理器
type StatisticsHandler struct {
	tracker *service.Tracker
}

// NewStatisticsHandler 创建统计处理器
func NewStatisticsHandler(tracker *service.Tracker) *StatisticsHandler {
	return &StatisticsHandler{tracker: tracker}
}

// Dashboard 首页概览
// @Summary 首页概览
// @Description 今日消费及与昨日对比、本月消费、今日已记录与剩余时长、工作效率、今日最高 5 笔消费、今日活动分布以及当月预算状态
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.DashboardView} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/dashboard [get]
func (h *StatisticsHandler) Dashboard(c *gin.Context) {
	view, err := h.tracker.Dashboard(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, view)
}

// Monthly 月度统计
// @Summary 月度统计
// @Description 指定月份的总支出、日均支出、类别/支付方式/活动分布、每日支出、工作与个人时长、预算状态及工作效率
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param year_month query string false "年月 (2024-06)，默认当月"
// @Success 200 {object} Response{data=service.MonthlyView} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/statistics/monthly [get]
func (h *StatisticsHandler) Monthly(c *gin.Context) {
	year, month, ok := yearMonth(c, h.tracker)
	if !ok {
		return
	}

	view, err := h.tracker.Monthly(c.Request.Context(), middleware.GetCurrentUserID(c), year, month)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, view)
}

// Weekly 最近 7 天消费
// @Summary 周对比
// @Description 截至今天最近 7 天每天的消费合计
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.WeeklyView} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/statistics/weekly [get]
func (h *StatisticsHandler) Weekly(c *gin.Context) {
	view, err := h.tracker.Weekly(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, view)
}
