package models

import (
	"time"

	"gorm.io/gorm"
)

// Expense 消费记录模型
type Expense struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Date        string         `json:"date" gorm:"size:10;index;not null"` // YYYY-MM-DD，不含时刻
	Category    string         `json:"category" gorm:"size:50;not null"`
	Amount      float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	PaymentMode string         `json:"payment_mode" gorm:"size:30"`
	Notes       string         `json:"notes" gorm:"size:255"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

// DateKey 实现按日期筛选所需的接口
func (e Expense) DateKey() string {
	return e.Date
}
