// Package store 消费、时间记录、预算与用户数据的持久化
package store

import (
	"context"
	"errors"

	"protrack/models"
)

// ErrNotFound 记录不存在（或不属于当前用户）
var ErrNotFound = errors.New("record not found")

// RecordStore 按用户隔离的记录存储
// ListTimeEntries/GetTimeEntry 返回的时间记录均已规范化
type RecordStore interface {
	ListExpenses(ctx context.Context, userID uint) ([]models.Expense, error)
	GetExpense(ctx context.Context, userID, id uint) (*models.Expense, error)
	CreateExpense(ctx context.Context, expense *models.Expense) error
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, userID, id uint) error

	ListTimeEntries(ctx context.Context, userID uint) ([]models.TimeEntry, error)
	GetTimeEntry(ctx context.Context, userID, id uint) (*models.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, entry *models.TimeEntry) error
	UpdateTimeEntry(ctx context.Context, entry *models.TimeEntry) error
	DeleteTimeEntry(ctx context.Context, userID, id uint) error

	// GetBudget 未设置预算时返回 0
	GetBudget(ctx context.Context, userID uint) (float64, error)
	SaveBudget(ctx context.Context, userID uint, amount float64) error

	// Import 批量写入导入的记录，全部成功或全部失败
	Import(ctx context.Context, expenses []models.Expense, rows []models.TimeEntryRow) error
}

// UserStore 用户与密码重置令牌存储
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uint, hash string) error

	CreatePasswordReset(ctx context.Context, reset *models.PasswordReset) error
	GetPasswordReset(ctx context.Context, token string) (*models.PasswordReset, error)
	// ConsumePasswordReset 标记令牌已使用并更新密码
	ConsumePasswordReset(ctx context.Context, reset *models.PasswordReset, hash string) error
}

// Store 完整的存储能力
type Store interface {
	RecordStore
	UserStore
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
