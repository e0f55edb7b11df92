package api

import (
	"strconv"
	"strings"

	"protrack/aggregate"
	"protrack/middleware"
	"protrack/models"
	"protrack/service"
	"protrack/taxonomy"
	"protrack/timemath"

	"github.com/gin-gonic/gin"
)

// maxPageSize 列表单页最大条数
const maxPageSize = 100

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	tracker *service.Tracker
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler(tracker *service.Tracker) *ExpenseHandler {
	return &ExpenseHandler{tracker: tracker}
}

// ExpenseRequest 创建/更新消费记录请求
type ExpenseRequest struct {
	Date           string  `json:"date" binding:"required" example:"2024-06-15"`
	Category       string  `json:"category" binding:"required" example:"Food"`
	CustomCategory string  `json:"custom_category" example:"Gifts"` // category 为 Other 时生效
	Amount         float64 `json:"amount" binding:"gte=0" example:"250.50"`
	PaymentMode    string  `json:"payment_mode" example:"UPI"`
	Notes          string  `json:"notes" example:"Lunch"`
}

// ExpenseListRequest 消费记录列表请求
type ExpenseListRequest struct {
	aggregate.ExpenseFilter
	Page     int `form:"page" example:"1"`
	PageSize int `form:"page_size" example:"20"` // 不传返回全部
}

// ExpenseListResponse 消费记录列表
type ExpenseListResponse struct {
	PageResponse
	TotalAmount float64 `json:"total_amount"`
}

// toExpense 校验请求并转换为消费记录
func (r ExpenseRequest) toExpense(userID uint) (models.Expense, string) {
	date := strings.TrimSpace(r.Date)
	if _, _, _, ok := timemath.ParseDateKey(date); !ok {
		return models.Expense{}, "日期格式错误，应为: 2006-01-02"
	}
	category := taxonomy.Resolve(r.Category, r.CustomCategory)
	if category == "" {
		return models.Expense{}, "类别不能为空"
	}
	return models.Expense{
		UserID:      userID,
		Date:        date,
		Category:    category,
		Amount:      aggregate.Round2(r.Amount),
		PaymentMode: strings.TrimSpace(r.PaymentMode),
		Notes:       strings.TrimSpace(r.Notes),
	}, ""
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description 创建一条新的消费记录。类别选择 Other 时可通过 custom_category 填写自定义类别。当月预算状态升级时会发送提醒。
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ExpenseRequest true "消费记录信息"
// @Success 200 {object} Response{data=models.Expense} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	expense, msg := req.toExpense(userID)
	if msg != "" {
		BadRequest(c, msg)
		return
	}

	ctx := c.Request.Context()
	err := h.tracker.WatchBudget(ctx, userID, middleware.GetCurrentEmail(c), func() error {
		return h.tracker.Store().CreateExpense(ctx, &expense)
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "创建消费记录失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", expense)
}

// List 获取消费记录列表
// @Summary 获取消费记录列表
// @Description 获取当前用户的消费记录，支持按日期/月份、类别、支付方式筛选与排序，返回筛选结果的合计金额
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date query string false "日期 (2024-06-15)"
// @Param month query string false "月份 (2024-06)，date 为空时生效"
// @Param category query string false "类别，Other 表示非预置类别"
// @Param custom_category query string false "category=Other 时按自定义文本模糊匹配"
// @Param payment_mode query string false "支付方式"
// @Param sort query string false "排序" Enums(date-desc,date-asc,amount-desc,amount-asc,category)
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量，不传返回全部"
// @Success 200 {object} Response{data=ExpenseListResponse{list=[]models.Expense}} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if !checkMonth(c, req.Month) {
		return
	}

	all, err := h.tracker.Store().ListExpenses(c.Request.Context(), userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	filtered := aggregate.FilterExpenses(all, req.ExpenseFilter)

	Success(c, ExpenseListResponse{
		PageResponse: paginate(filtered, req.Page, req.PageSize),
		TotalAmount:  aggregate.TotalAmount(filtered),
	})
}

// checkMonth 校验 month 筛选参数（YYYY-MM），不合法时返回 400
func checkMonth(c *gin.Context, month string) bool {
	if month == "" {
		return true
	}
	if _, _, ok := timemath.ParseMonthKey(month); !ok {
		BadRequest(c, "月份格式错误，应为 YYYY-MM")
		return false
	}
	return true
}

// paginate 内存分页，pageSize <= 0 时返回全部
func paginate[T any](list []T, page, pageSize int) PageResponse {
	total := len(list)
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		return PageResponse{Total: int64(total), Page: 1, PageSize: total, List: list}
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)
	return PageResponse{Total: int64(total), Page: page, PageSize: pageSize, List: list[start:end]}
}

// Top 获取某天金额最高的消费
// @Summary 获取当天最高消费
// @Description 获取指定日期（默认今天）金额最高的若干条消费记录
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date query string false "日期 (2024-06-15)，默认今天"
// @Param limit query int false "条数" default(5)
// @Success 200 {object} Response{data=[]models.Expense} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses/top [get]
func (h *ExpenseHandler) Top(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	date := c.DefaultQuery("date", h.tracker.TodayKey())
	if _, _, _, ok := timemath.ParseDateKey(date); !ok {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}
	limit := aggregate.TopExpenseCount
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxPageSize {
			BadRequest(c, "limit 参数错误")
			return
		}
		limit = n
	}

	all, err := h.tracker.Store().ListExpenses(c.Request.Context(), userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, aggregate.TopByAmount(aggregate.FilterByDate(all, date), limit))
}

// Get 获取单条消费记录
// @Summary 获取单条消费记录
// @Description 根据ID获取消费记录详情
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录ID"
// @Success 200 {object} Response{data=models.Expense} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	expense, err := h.tracker.Store().GetExpense(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		StoreError(c, err, "查询失败")
		return
	}

	Success(c, expense)
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Description 用请求内容覆盖指定的消费记录
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录ID"
// @Param request body ExpenseRequest true "消费记录信息"
// @Success 200 {object} Response{data=models.Expense} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	expense, msg := req.toExpense(userID)
	if msg != "" {
		BadRequest(c, msg)
		return
	}
	expense.ID = id

	ctx := c.Request.Context()
	err := h.tracker.WatchBudget(ctx, userID, middleware.GetCurrentEmail(c), func() error {
		return h.tracker.Store().UpdateExpense(ctx, &expense)
	})
	if err != nil {
		StoreError(c, err, "更新失败")
		return
	}

	// 重新获取更新后的记录
	updated, err := h.tracker.Store().GetExpense(ctx, userID, id)
	if err != nil {
		StoreError(c, err, "查询失败")
		return
	}
	SuccessWithMessage(c, "更新成功", updated)
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Description 删除指定的消费记录
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.tracker.Store().DeleteExpense(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		StoreError(c, err, "删除失败")
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
