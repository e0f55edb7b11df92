package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"protrack/models"
)

// importBatchSize 导入时每批写入的条数
const importBatchSize = 100

// GormStore 基于 gorm 的存储实现（MySQL / PostgreSQL）
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 gorm 存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ListExpenses 获取用户全部消费记录
func (s *GormStore) ListExpenses(ctx context.Context, userID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// GetExpense 获取单条消费记录
func (s *GormStore) GetExpense(ctx context.Context, userID, id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&expense).Error; err != nil {
		return nil, notFound(err)
	}
	return &expense, nil
}

// CreateExpense 创建消费记录
func (s *GormStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if err := s.db.WithContext(ctx).Create(expense).Error; err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

// UpdateExpense 覆盖更新消费记录（后写入者生效）
func (s *GormStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	result := s.db.WithContext(ctx).Model(&models.Expense{}).
		Where("id = ? AND user_id = ?", expense.ID, expense.UserID).
		Updates(map[string]interface{}{
			"date":         expense.Date,
			"category":     expense.Category,
			"amount":       expense.Amount,
			"payment_mode": expense.PaymentMode,
			"notes":        expense.Notes,
		})
	if result.Error != nil {
		return fmt.Errorf("update expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpense 删除消费记录（软删除）
func (s *GormStore) DeleteExpense(ctx context.Context, userID, id uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Expense{})
	if result.Error != nil {
		return fmt.Errorf("delete expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTimeEntries 获取用户全部时间记录，读取时完成规范化
func (s *GormStore) ListTimeEntries(ctx context.Context, userID uint) ([]models.TimeEntry, error) {
	var rows []models.TimeEntryRow
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	entries := make([]models.TimeEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.Normalize())
	}
	return entries, nil
}

// GetTimeEntry 获取单条时间记录
func (s *GormStore) GetTimeEntry(ctx context.Context, userID, id uint) (*models.TimeEntry, error) {
	var row models.TimeEntryRow
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	entry := row.Normalize()
	return &entry, nil
}

// CreateTimeEntry 创建时间记录
func (s *GormStore) CreateTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	row := entry.ToRow()
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create time entry: %w", err)
	}
	*entry = row.Normalize()
	return nil
}

// UpdateTimeEntry 覆盖更新时间记录
func (s *GormStore) UpdateTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	row := entry.ToRow()
	result := s.db.WithContext(ctx).Model(&models.TimeEntryRow{}).
		Where("id = ? AND user_id = ?", entry.ID, entry.UserID).
		Updates(map[string]interface{}{
			"date":       row.Date,
			"activity":   row.Activity,
			"start_time": row.StartTime,
			"end_time":   row.EndTime,
			"hours":      row.Hours,
			"minutes":    row.Minutes,
			"duration":   row.Duration,
			"notes":      row.Notes,
		})
	if result.Error != nil {
		return fmt.Errorf("update time entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTimeEntry 删除时间记录（软删除）
func (s *GormStore) DeleteTimeEntry(ctx context.Context, userID, id uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.TimeEntryRow{})
	if result.Error != nil {
		return fmt.Errorf("delete time entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetBudget 获取预算金额，未设置时为 0
func (s *GormStore) GetBudget(ctx context.Context, userID uint) (float64, error) {
	var budget models.Budget
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get budget: %w", err)
	}
	return budget.Amount, nil
}

// SaveBudget 设置预算（按 user_id 插入或更新）
func (s *GormStore) SaveBudget(ctx context.Context, userID uint, amount float64) error {
	budget := models.Budget{UserID: userID, Amount: amount}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&budget).Error
	if err != nil {
		return fmt.Errorf("save budget: %w", err)
	}
	return nil
}

// Import 在一个事务中写入导入的记录
func (s *GormStore) Import(ctx context.Context, expenses []models.Expense, rows []models.TimeEntryRow) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(expenses) > 0 {
			if err := tx.CreateInBatches(&expenses, importBatchSize).Error; err != nil {
				return fmt.Errorf("import expenses: %w", err)
			}
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(&rows, importBatchSize).Error; err != nil {
				return fmt.Errorf("import time entries: %w", err)
			}
		}
		return nil
	})
}

// CreateUser 创建用户
func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser 按 ID 获取用户
func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetUserByEmail 按邮箱获取用户
func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UpdatePassword 更新密码哈希
func (s *GormStore) UpdatePassword(ctx context.Context, userID uint, hash string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", hash)
	if result.Error != nil {
		return fmt.Errorf("update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreatePasswordReset 保存重置令牌
func (s *GormStore) CreatePasswordReset(ctx context.Context, reset *models.PasswordReset) error {
	if err := s.db.WithContext(ctx).Create(reset).Error; err != nil {
		return fmt.Errorf("create password reset: %w", err)
	}
	return nil
}

// GetPasswordReset 按令牌查找
func (s *GormStore) GetPasswordReset(ctx context.Context, token string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&reset).Error; err != nil {
		return nil, notFound(err)
	}
	return &reset, nil
}

// ConsumePasswordReset 在事务中标记令牌已使用并更新密码，令牌已被使用时返回 ErrNotFound
func (s *GormStore) ConsumePasswordReset(ctx context.Context, reset *models.PasswordReset, hash string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PasswordReset{}).
			Where("id = ? AND used = ?", reset.ID, false).
			Update("used", true)
		if result.Error != nil {
			return fmt.Errorf("mark reset used: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Model(&models.User{}).
			Where("id = ?", reset.UserID).
			Updates(map[string]interface{}{"password": hash, "updated_at": time.Now()}).Error; err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		reset.Used = true
		return nil
	})
}
