package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"protrack/aggregate"
	"protrack/budget"
	"protrack/models"
	"protrack/store"
	"protrack/taxonomy"
	"protrack/timemath"
)

// WeeklyDays 周对比统计的天数
const WeeklyDays = 7

// TrackerOptions Tracker 的可选配置
type TrackerOptions struct {
	Location       *time.Location
	WorkActivities []string
	Notifier       Notifier
	Now            func() time.Time
}

// Tracker 统计与预算计算的入口，持有存储、时区与工作活动集合
type Tracker struct {
	store    store.RecordStore
	loc      *time.Location
	work     taxonomy.ActivitySet
	notifier Notifier
	now      func() time.Time
}

// NewTracker 创建 Tracker，未指定的选项使用默认值
func NewTracker(s store.RecordStore, opts TrackerOptions) *Tracker {
	t := &Tracker{
		store:    s,
		loc:      opts.Location,
		notifier: opts.Notifier,
		now:      opts.Now,
	}
	if t.loc == nil {
		t.loc = time.Local
	}
	if t.now == nil {
		t.now = time.Now
	}
	if len(opts.WorkActivities) > 0 {
		t.work = taxonomy.NewActivitySet(opts.WorkActivities...)
	} else {
		t.work = taxonomy.NewActivitySet(taxonomy.DefaultWorkActivities...)
	}
	return t
}

// Store 底层记录存储
func (t *Tracker) Store() store.RecordStore {
	return t.store
}

// Today 配置时区下的当前时间
func (t *Tracker) Today() time.Time {
	return t.now().In(t.loc)
}

// TodayKey 配置时区下今天的日期键
func (t *Tracker) TodayKey() string {
	return timemath.DateKey(t.Today())
}

// Work 视为工作的活动集合
func (t *Tracker) Work() taxonomy.ActivitySet {
	return t.work
}

// snapshot 一次统计所需的用户数据
type snapshot struct {
	expenses []models.Expense
	entries  []models.TimeEntry
	budget   float64
}

// fetch 并发读取消费、时间记录与预算
func (t *Tracker) fetch(ctx context.Context, userID uint) (*snapshot, error) {
	var snap snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := t.store.ListExpenses(ctx, userID)
		if err != nil {
			return err
		}
		snap.expenses = list
		return nil
	})
	g.Go(func() error {
		list, err := t.store.ListTimeEntries(ctx, userID)
		if err != nil {
			return err
		}
		snap.entries = list
		return nil
	})
	g.Go(func() error {
		amount, err := t.store.GetBudget(ctx, userID)
		if err != nil {
			return err
		}
		snap.budget = amount
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return &snap, nil
}

// BudgetView 预算与当月评估
type BudgetView struct {
	Month      string            `json:"month"`
	Amount     float64           `json:"amount"`
	Evaluation budget.Evaluation `json:"evaluation"`
	Message    string            `json:"message"`
}

func budgetView(expenses []models.Expense, amount float64, year int, month time.Month) BudgetView {
	spent := aggregate.TotalAmount(aggregate.FilterByMonth(expenses, month, year))
	e := budget.Evaluate(amount, spent)
	return BudgetView{
		Month:      timemath.MonthKey(year, month),
		Amount:     amount,
		Evaluation: e,
		Message:    budget.Message(e),
	}
}

// DashboardView 首页概览及当月预算
type DashboardView struct {
	aggregate.Dashboard
	Budget BudgetView `json:"budget"`
}

// Dashboard 首页概览
func (t *Tracker) Dashboard(ctx context.Context, userID uint) (*DashboardView, error) {
	snap, err := t.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := t.Today()
	return &DashboardView{
		Dashboard: aggregate.BuildDashboard(snap.expenses, snap.entries, today, t.work),
		Budget:    budgetView(snap.expenses, snap.budget, today.Year(), today.Month()),
	}, nil
}

// MonthlyView 月度统计、预算与工作效率
type MonthlyView struct {
	aggregate.Monthly
	Budget   BudgetView         `json:"budget"`
	Insights aggregate.Insights `json:"insights"`
}

// Monthly 指定月份的统计；工作效率基于全部时间记录
func (t *Tracker) Monthly(ctx context.Context, userID uint, year int, month time.Month) (*MonthlyView, error) {
	snap, err := t.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MonthlyView{
		Monthly:  aggregate.BuildMonthly(snap.expenses, snap.entries, year, month, t.work),
		Budget:   budgetView(snap.expenses, snap.budget, year, month),
		Insights: aggregate.BuildInsights(snap.entries, t.work),
	}, nil
}

// WeeklyView 最近一周每天的消费
type WeeklyView struct {
	Days  []aggregate.DailyPoint `json:"days"`
	Total float64                `json:"total"`
}

// Weekly 截至今天最近 7 天的消费
func (t *Tracker) Weekly(ctx context.Context, userID uint) (*WeeklyView, error) {
	expenses, err := t.store.ListExpenses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	days := aggregate.LastNDays(expenses, t.Today(), WeeklyDays)
	var total float64
	for _, d := range days {
		total += d.Amount
	}
	return &WeeklyView{Days: days, Total: aggregate.Round2(total)}, nil
}

// MonthBudget 指定月份的预算评估
func (t *Tracker) MonthBudget(ctx context.Context, userID uint, year int, month time.Month) (*BudgetView, error) {
	snap, err := t.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	v := budgetView(snap.expenses, snap.budget, year, month)
	return &v, nil
}

// currentBudget 当月预算评估
func (t *Tracker) currentBudget(ctx context.Context, userID uint) (*BudgetView, error) {
	today := t.Today()
	return t.MonthBudget(ctx, userID, today.Year(), today.Month())
}

// WatchBudget 执行 fn（写入消费或预算），并在当月预算状态升级时发送提醒
// 预算读取或提醒失败只记录日志，不影响 fn 的结果
func (t *Tracker) WatchBudget(ctx context.Context, userID uint, email string, fn func() error) error {
	if t.notifier == nil {
		return fn()
	}

	before, err := t.currentBudget(ctx, userID)
	if err != nil {
		log.Printf("读取预算状态失败: user=%d err=%v", userID, err)
		return fn()
	}
	if err := fn(); err != nil {
		return err
	}
	after, err := t.currentBudget(ctx, userID)
	if err != nil {
		log.Printf("读取预算状态失败: user=%d err=%v", userID, err)
		return nil
	}
	t.NotifyEscalation(ctx, userID, email, before, after)
	return nil
}

// NotifyEscalation 预算状态升级时发送提醒，失败只记录日志
func (t *Tracker) NotifyEscalation(ctx context.Context, userID uint, email string, before, after *BudgetView) {
	if t.notifier == nil || before == nil || after == nil {
		return
	}
	if !budget.Escalated(before.Evaluation.Status, after.Evaluation.Status) {
		return
	}
	alert := BudgetAlert{
		UserID:     userID,
		Email:      email,
		Month:      after.Month,
		Previous:   before.Evaluation.Status,
		Current:    after.Evaluation.Status,
		Evaluation: after.Evaluation,
		Message:    after.Message,
		At:         t.now(),
	}
	if err := t.notifier.NotifyBudget(ctx, alert); err != nil {
		log.Printf("发送预算提醒失败: user=%d status=%s err=%v", userID, alert.Current, err)
		return
	}
	log.Printf("已发送预算提醒: user=%d %s -> %s", userID, alert.Previous, alert.Current)
}
