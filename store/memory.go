package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"protrack/models"
)

// MemoryStore 内存存储，用于本地试用与测试，进程退出后数据丢失
type MemoryStore struct {
	mu sync.RWMutex

	nextID   uint
	expenses map[uint]models.Expense
	entries  map[uint]models.TimeEntryRow
	budgets  map[uint]float64
	users    map[uint]models.User
	resets   map[string]models.PasswordReset

	now func() time.Time
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		expenses: make(map[uint]models.Expense),
		entries:  make(map[uint]models.TimeEntryRow),
		budgets:  make(map[uint]float64),
		users:    make(map[uint]models.User),
		resets:   make(map[string]models.PasswordReset),
		now:      time.Now,
	}
}

func (s *MemoryStore) id() uint {
	s.nextID++
	return s.nextID
}

// 与 GormStore 一致：日期倒序，同日期按 ID 倒序
func sortByDateDesc[T any](list []T, date func(T) string, id func(T) uint) {
	sort.Slice(list, func(i, j int) bool {
		di, dj := date(list[i]), date(list[j])
		if di != dj {
			return di > dj
		}
		return id(list[i]) > id(list[j])
	})
}

// ListExpenses 获取用户全部消费记录
func (s *MemoryStore) ListExpenses(_ context.Context, userID uint) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Expense, 0)
	for _, e := range s.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sortByDateDesc(out,
		func(e models.Expense) string { return e.Date },
		func(e models.Expense) uint { return e.ID })
	return out, nil
}

// GetExpense 获取单条消费记录
func (s *MemoryStore) GetExpense(_ context.Context, userID, id uint) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[id]
	if !ok || e.UserID != userID {
		return nil, ErrNotFound
	}
	return &e, nil
}

// CreateExpense 创建消费记录
func (s *MemoryStore) CreateExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	expense.ID = s.id()
	expense.CreatedAt, expense.UpdatedAt = now, now
	s.expenses[expense.ID] = *expense
	return nil
}

// UpdateExpense 覆盖更新消费记录
func (s *MemoryStore) UpdateExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.expenses[expense.ID]
	if !ok || old.UserID != expense.UserID {
		return ErrNotFound
	}
	expense.CreatedAt = old.CreatedAt
	expense.UpdatedAt = s.now()
	s.expenses[expense.ID] = *expense
	return nil
}

// DeleteExpense 删除消费记录
func (s *MemoryStore) DeleteExpense(_ context.Context, userID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[id]
	if !ok || e.UserID != userID {
		return ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

// ListTimeEntries 获取用户全部时间记录（已规范化）
func (s *MemoryStore) ListTimeEntries(_ context.Context, userID uint) ([]models.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TimeEntry, 0)
	for _, r := range s.entries {
		if r.UserID == userID {
			out = append(out, r.Normalize())
		}
	}
	sortByDateDesc(out,
		func(e models.TimeEntry) string { return e.Date },
		func(e models.TimeEntry) uint { return e.ID })
	return out, nil
}

// GetTimeEntry 获取单条时间记录
func (s *MemoryStore) GetTimeEntry(_ context.Context, userID, id uint) (*models.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.entries[id]
	if !ok || r.UserID != userID {
		return nil, ErrNotFound
	}
	e := r.Normalize()
	return &e, nil
}

// CreateTimeEntry 创建时间记录
func (s *MemoryStore) CreateTimeEntry(_ context.Context, entry *models.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	row := entry.ToRow()
	row.ID = s.id()
	row.CreatedAt, row.UpdatedAt = now, now
	s.entries[row.ID] = row
	*entry = row.Normalize()
	return nil
}

// UpdateTimeEntry 覆盖更新时间记录
func (s *MemoryStore) UpdateTimeEntry(_ context.Context, entry *models.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.entries[entry.ID]
	if !ok || old.UserID != entry.UserID {
		return ErrNotFound
	}
	row := entry.ToRow()
	row.CreatedAt = old.CreatedAt
	row.UpdatedAt = s.now()
	s.entries[row.ID] = row
	*entry = row.Normalize()
	return nil
}

// DeleteTimeEntry 删除时间记录
func (s *MemoryStore) DeleteTimeEntry(_ context.Context, userID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.entries[id]
	if !ok || r.UserID != userID {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

// GetBudget 获取预算，未设置时为 0
func (s *MemoryStore) GetBudget(_ context.Context, userID uint) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.budgets[userID], nil
}

// SaveBudget 设置预算
func (s *MemoryStore) SaveBudget(_ context.Context, userID uint, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[userID] = amount
	return nil
}

// Import 批量写入导入的记录
func (s *MemoryStore) Import(_ context.Context, expenses []models.Expense, rows []models.TimeEntryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, e := range expenses {
		e.ID = s.id()
		e.CreatedAt, e.UpdatedAt = now, now
		s.expenses[e.ID] = e
	}
	for _, r := range rows {
		r.ID = s.id()
		r.CreatedAt, r.UpdatedAt = now, now
		s.entries[r.ID] = r
	}
	return nil
}

// CreateUser 创建用户
func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	user.ID = s.id()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	return nil
}

// GetUser 按 ID 获取用户
func (s *MemoryStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// GetUserByEmail 按邮箱获取用户（不区分大小写）
func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// UpdatePassword 更新密码哈希
func (s *MemoryStore) UpdatePassword(_ context.Context, userID uint, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.Password = hash
	u.UpdatedAt = s.now()
	s.users[userID] = u
	return nil
}

// CreatePasswordReset 保存重置令牌
func (s *MemoryStore) CreatePasswordReset(_ context.Context, reset *models.PasswordReset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reset.ID = s.id()
	reset.CreatedAt = s.now()
	s.resets[reset.Token] = *reset
	return nil
}

// GetPasswordReset 按令牌查找
func (s *MemoryStore) GetPasswordReset(_ context.Context, token string) (*models.PasswordReset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.resets[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

// ConsumePasswordReset 标记令牌已使用并更新密码
func (s *MemoryStore) ConsumePasswordReset(_ context.Context, reset *models.PasswordReset, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.resets[reset.Token]
	if !ok || r.Used {
		return ErrNotFound
	}
	u, ok := s.users[r.UserID]
	if !ok {
		return ErrNotFound
	}
	r.Used = true
	s.resets[r.Token] = r
	u.Password = hash
	u.UpdatedAt = s.now()
	s.users[u.ID] = u
	reset.Used = true
	return nil
}
