package api

import (
	"maps"
	"slices"

	"protrack/service"
	"protrack/taxonomy"

	"github.com/gin-gonic/gin"
)

// TaxonomyHandler 类别与活动处理器
type TaxonomyHandler struct {
	tracker *service.Tracker
}

// NewTaxonomyHandler 创建类别处理器
func NewTaxonomyHandler(tracker *service.Tracker) *TaxonomyHandler {
	return &TaxonomyHandler{tracker: tracker}
}

// TaxonomyResponse 预置类别、活动与支付方式
type TaxonomyResponse struct {
	Categories     []taxonomy.Item `json:"categories"`
	Activities     []taxonomy.Item `json:"activities"`
	PaymentModes   []string        `json:"payment_modes"`
	WorkActivities []string        `json:"work_activities"`
}

// Get 获取类别与活动
// @Summary 获取类别与活动
// @Description 返回预置的消费类别、活动（含图标和颜色）、常用支付方式以及计入工作时长的活动
// @Tags 类别
// @Produce json
// @Success 200 {object} Response{data=TaxonomyResponse} "获取成功"
// @Router /api/v1/taxonomy [get]
func (h *TaxonomyHandler) Get(c *gin.Context) {
	Success(c, TaxonomyResponse{
		Categories:     taxonomy.Categories(),
		Activities:     taxonomy.Activities(),
		PaymentModes:   taxonomy.PaymentModes,
		WorkActivities: slices.Sorted(maps.Keys(h.tracker.Work())),
	})
}
