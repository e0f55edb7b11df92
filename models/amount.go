package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// coerceAmount 宽松金额解析，保留两位小数，无法解析或为负时返回 0
func coerceAmount(v any) float64 {
	var d decimal.Decimal
	switch n := v.(type) {
	case float64:
		d = decimal.NewFromFloat(n)
	case int:
		d = decimal.NewFromInt(int64(n))
	case json.Number:
		parsed, err := decimal.NewFromString(n.String())
		if err != nil {
			return 0
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(n)
		if err != nil {
			return 0
		}
		d = parsed
	default:
		return 0
	}
	if d.IsNegative() {
		return 0
	}
	f, _ := d.Round(2).Float64()
	return f
}
