package api

import (
	"context"
	"net/http"
	"testing"

	"protrack/schema"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportHandler(t *testing.T) {
	tr, s, _ := setupTracker(t)
	v, err := schema.NewValidator()
	require.NoError(t, err)
	h := NewImportHandler(tr, v)
	router := newUserRouter()
	router.POST("/import", h.Import)

	body := `{
		"expenses": [
			{"date":"2024-06-01","category":"Food","amount":"250.75","paymentMode":"UPI","notes":"Dinner"},
			{"date":"2024-06-02","category":"Travel","amount":"abc"}
		],
		"timeEntries": [
			{"date":"2024-06-01","activity":"Sleep","startTime":"11:00 PM","endTime":"07:00 AM"},
			{"date":"2024-06-02","activity":"Office Work","startTime":"09:00","endTime":"10:00","hours":"2","minutes":15}
		],
		"budget": "5000"
	}`
	w := doRequest(router, "POST", "/import", body)
	require.Equal(t, http.StatusOK, w.Code)

	var result ImportResult
	decodeResponse(t, w, &result)
	assert.Equal(t, ImportResult{Expenses: 2, TimeEntries: 2, BudgetUpdated: true}, result)

	ctx := context.Background()
	expenses, err := s.ListExpenses(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, 0.0, expenses[0].Amount)
	assert.Equal(t, 250.75, expenses[1].Amount)

	entries, err := s.ListTimeEntries(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// 已有的 hours/minutes 保留原值
	assert.Equal(t, 135, entries[0].TotalMinutes())
	// 缺失时按起止时间跨午夜计算
	assert.Equal(t, "23:00", entries[1].StartTime)
	assert.Equal(t, 480, entries[1].TotalMinutes())
	assert.Equal(t, "8h", entries[1].Duration)

	amount, err := s.GetBudget(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, amount)
}

func TestImportHandler_Invalid(t *testing.T) {
	tr, s, _ := setupTracker(t)
	v, err := schema.NewValidator()
	require.NoError(t, err)
	router := gin.New()
	router.Use(setUserMiddleware(testUserID, testEmail))
	router.POST("/import", NewImportHandler(tr, v).Import)

	w := doRequest(router, "POST", "/import", `{"expenses":[{"date":"June 1","category":"Food","amount":10}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var fields []string
	resp := decodeResponse(t, w, &fields)
	assert.Equal(t, "数据格式错误", resp.Message)
	assert.NotEmpty(t, fields)

	assert.Equal(t, http.StatusBadRequest, doRequest(router, "POST", "/import", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, "POST", "/import", `not json`).Code)

	expenses, err := s.ListExpenses(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Empty(t, expenses)
}
