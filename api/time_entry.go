package api

import (
	"strings"

	"protrack/aggregate"
	"protrack/middleware"
	"protrack/models"
	"protrack/service"
	"protrack/taxonomy"
	"protrack/timemath"

	"github.com/gin-gonic/gin"
)

// TimeEntryHandler 时间记录处理器
type TimeEntryHandler struct {
	tracker *service.Tracker
}

// NewTimeEntryHandler 创建时间记录处理器
func NewTimeEntryHandler(tracker *service.Tracker) *TimeEntryHandler {
	return &TimeEntryHandler{tracker: tracker}
}

// TimeEntryRequest 创建/更新时间记录请求
// 起止时间可以是 24 小时制 "14:30" 或 12 小时制 "02:30 PM"，结束早于或等于开始时视为跨午夜
type TimeEntryRequest struct {
	Date           string `json:"date" binding:"required" example:"2024-06-15"`
	Activity       string `json:"activity" binding:"required" example:"Office Work"`
	CustomActivity string `json:"custom_activity" example:"Gym"` // activity 为 Other 时生效
	StartTime      string `json:"start_time" binding:"required" example:"09:00 AM"`
	EndTime        string `json:"end_time" binding:"required" example:"05:30 PM"`
	Notes          string `json:"notes" example:"Sprint planning"`
}

// TimeEntryListResponse 时间记录列表及当日汇总
type TimeEntryListResponse struct {
	List         []models.TimeEntry   `json:"list"`
	Count        int                  `json:"count"`
	TotalMinutes int                  `json:"total_minutes"`
	Total        string               `json:"total"`
	Summary      aggregate.DaySummary `json:"summary"`
}

// toEntry 校验请求并计算时长
func (r TimeEntryRequest) toEntry(userID uint) (models.TimeEntry, string) {
	date := strings.TrimSpace(r.Date)
	if _, _, _, ok := timemath.ParseDateKey(date); !ok {
		return models.TimeEntry{}, "日期格式错误，应为: 2006-01-02"
	}
	activity := taxonomy.Resolve(r.Activity, r.CustomActivity)
	if activity == "" {
		return models.TimeEntry{}, "活动不能为空"
	}
	entry, ok := models.NewTimeEntry(userID, date, activity,
		strings.TrimSpace(r.StartTime), strings.TrimSpace(r.EndTime), strings.TrimSpace(r.Notes))
	if !ok {
		return models.TimeEntry{}, "时间格式错误，应为 HH:MM 或 hh:mm AM/PM"
	}
	return entry, ""
}

// Create 创建时间记录
// @Summary 创建时间记录
// @Description 根据起止时间创建时间记录，时长由服务端计算。活动选择 Other 时可通过 custom_activity 填写自定义活动。
// @Tags 时间记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TimeEntryRequest true "时间记录信息"
// @Success 200 {object} Response{data=models.TimeEntry} "创建成功"
// @Failure 400 {object} Response "请求参数错误或时间无法识别"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/time-entries [post]
func (h *TimeEntryHandler) Create(c *gin.Context) {
	var req TimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	entry, msg := req.toEntry(middleware.GetCurrentUserID(c))
	if msg != "" {
		BadRequest(c, msg)
		return
	}

	if err := h.tracker.Store().CreateTimeEntry(c.Request.Context(), &entry); err != nil {
		InternalError(c, SafeErrorMessage(err, "创建时间记录失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", entry)
}

// List 获取时间记录列表
// @Summary 获取时间记录列表
// @Description 获取当前用户的时间记录，支持按日期/月份、活动筛选与排序；summary 为筛选日期（默认今天）的已记录与剩余时长
// @Tags 时间记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date query string false "日期 (2024-06-15)"
// @Param month query string false "月份 (2024-06)，date 为空时生效"
// @Param activity query string false "活动，Other 表示非预置活动"
// @Param custom_activity query string false "activity=Other 时按自定义文本模糊匹配"
// @Param sort query string false "排序" Enums(date-desc,date-asc,duration-desc,duration-asc)
// @Success 200 {object} Response{data=TimeEntryListResponse} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/time-entries [get]
func (h *TimeEntryHandler) List(c *gin.Context) {
	var f aggregate.TimeFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if !checkMonth(c, f.Month) {
		return
	}

	all, err := h.tracker.Store().ListTimeEntries(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	filtered := aggregate.FilterTimeEntries(all, f)
	total := aggregate.TotalMinutes(filtered)

	Success(c, TimeEntryListResponse{
		List:         filtered,
		Count:        len(filtered),
		TotalMinutes: total,
		Total:        timemath.FormatMinutes(total),
		Summary:      aggregate.BuildDaySummary(all, filtered, f, h.tracker.TodayKey()),
	})
}

// Get 获取单条时间记录
// @Summary 获取单条时间记录
// @Tags 时间记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "时间记录ID"
// @Success 200 {object} Response{data=models.TimeEntry} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/time-entries/{id} [get]
func (h *TimeEntryHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	entry, err := h.tracker.Store().GetTimeEntry(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		StoreError(c, err, "查询失败")
		return
	}

	Success(c, entry)
}

// Update 更新时间记录
// @Summary 更新时间记录
// @Description 用请求内容覆盖指定的时间记录，时长重新计算
// @Tags 时间记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "时间记录ID"
// @Param request body TimeEntryRequest true "时间记录信息"
// @Success 200 {object} Response{data=models.TimeEntry} "更新成功"
// @Failure 400 {object} Response "请求参数错误或时间无法识别"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/time-entries/{id} [put]
func (h *TimeEntryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req TimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	entry, msg := req.toEntry(userID)
	if msg != "" {
		BadRequest(c, msg)
		return
	}
	entry.ID = id

	ctx := c.Request.Context()
	if err := h.tracker.Store().UpdateTimeEntry(ctx, &entry); err != nil {
		StoreError(c, err, "更新失败")
		return
	}

	updated, err := h.tracker.Store().GetTimeEntry(ctx, userID, id)
	if err != nil {
		StoreError(c, err, "查询失败")
		return
	}
	SuccessWithMessage(c, "更新成功", updated)
}

// Delete 删除时间记录
// @Summary 删除时间记录
// @Tags 时间记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "时间记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/time-entries/{id} [delete]
func (h *TimeEntryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.tracker.Store().DeleteTimeEntry(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		StoreError(c, err, "删除失败")
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
