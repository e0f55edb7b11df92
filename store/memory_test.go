package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protrack/models"
)

func TestMemoryStore_ExpenseCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	a := &models.Expense{UserID: 1, Date: "2024-06-01", Category: "Food", Amount: 20}
	b := &models.Expense{UserID: 1, Date: "2024-06-03", Category: "Travel", Amount: 5}
	other := &models.Expense{UserID: 2, Date: "2024-06-02", Category: "Rent", Amount: 900}
	require.NoError(t, s.CreateExpense(ctx, a))
	require.NoError(t, s.CreateExpense(ctx, b))
	require.NoError(t, s.CreateExpense(ctx, other))
	assert.NotZero(t, a.ID)

	list, err := s.ListExpenses(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)

	// 其他用户的记录不可见
	_, err = s.GetExpense(ctx, 1, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	a.Amount = 25
	require.NoError(t, s.UpdateExpense(ctx, a))
	got, err := s.GetExpense(ctx, 1, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.Amount)

	assert.ErrorIs(t, s.UpdateExpense(ctx, &models.Expense{ID: other.ID, UserID: 1}), ErrNotFound)
	assert.ErrorIs(t, s.DeleteExpense(ctx, 1, other.ID), ErrNotFound)
	require.NoError(t, s.DeleteExpense(ctx, 1, a.ID))
	_, err = s.GetExpense(ctx, 1, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_TimeEntriesNormalized(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	e := &models.TimeEntry{UserID: 1, Date: "2024-06-01", Activity: "Sleep", StartTime: "23:00", EndTime: "06:00", Hours: 7}
	require.NoError(t, s.CreateTimeEntry(ctx, e))
	assert.Equal(t, "7h", e.Duration)

	// 旧数据：缺少 hours/minutes
	require.NoError(t, s.Import(ctx, nil, []models.TimeEntryRow{
		{UserID: 1, Date: "2024-06-02", Activity: "Commute", StartTime: "08:00", EndTime: "08:40"},
	}))

	list, err := s.ListTimeEntries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Commute", list[0].Activity)
	assert.Equal(t, 40, list[0].Minutes)
	assert.Equal(t, "40m", list[0].Duration)

	e.Activity = "Breaks"
	require.NoError(t, s.UpdateTimeEntry(ctx, e))
	got, err := s.GetTimeEntry(ctx, 1, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Breaks", got.Activity)

	require.NoError(t, s.DeleteTimeEntry(ctx, 1, e.ID))
	assert.ErrorIs(t, s.DeleteTimeEntry(ctx, 1, e.ID), ErrNotFound)
}

func TestMemoryStore_Budget(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	amount, err := s.GetBudget(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, amount)

	require.NoError(t, s.SaveBudget(ctx, 1, 5000))
	require.NoError(t, s.SaveBudget(ctx, 1, 6000))
	amount, err = s.GetBudget(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 6000.0, amount)
}

func TestMemoryStore_UsersAndReset(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u := &models.User{Email: "Alice@Example.com", Name: "Alice", Password: "hash"}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	reset, err := models.NewPasswordReset(*u, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.CreatePasswordReset(ctx, reset))

	found, err := s.GetPasswordReset(ctx, reset.Token)
	require.NoError(t, err)
	require.NoError(t, s.ConsumePasswordReset(ctx, found, "new-hash"))
	assert.True(t, found.Used)

	// 令牌只能使用一次
	assert.ErrorIs(t, s.ConsumePasswordReset(ctx, found, "again"), ErrNotFound)

	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.Password)
}
