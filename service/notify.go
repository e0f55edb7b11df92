package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"protrack/budget"
)

// BudgetAlert 预算状态升级事件
type BudgetAlert struct {
	UserID     uint              `json:"user_id"`
	Email      string            `json:"email"`
	Month      string            `json:"month"`
	Previous   budget.Status     `json:"previous"`
	Current    budget.Status     `json:"current"`
	Evaluation budget.Evaluation `json:"evaluation"`
	Message    string            `json:"message"`
	At         time.Time         `json:"at"`
}

// ToJSON 序列化
func (a BudgetAlert) ToJSON() ([]byte, error) {
	return json.Marshal(a)
}

// BudgetAlertFromJSON 反序列化
func BudgetAlertFromJSON(data []byte) (*BudgetAlert, error) {
	var a BudgetAlert
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Notifier 预算提醒发送方
type Notifier interface {
	NotifyBudget(ctx context.Context, alert BudgetAlert) error
}

// MultiNotifier 依次调用多个 Notifier，返回合并后的错误
type MultiNotifier []Notifier

// NotifyBudget 实现 Notifier
func (m MultiNotifier) NotifyBudget(ctx context.Context, alert BudgetAlert) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyBudget(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EmailNotifier 通过邮件发送预算提醒
type EmailNotifier struct {
	Mail *EmailService
}

// NotifyBudget 实现 Notifier
func (n EmailNotifier) NotifyBudget(_ context.Context, alert BudgetAlert) error {
	return n.Mail.SendBudgetAlertEmail(alert)
}
