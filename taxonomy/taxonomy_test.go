package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoriesAndActivities(t *testing.T) {
	assert.Len(t, Categories(), 8)
	assert.Len(t, Activities(), 8)
	assert.Equal(t, "🍔", CategoryIcon(CategoryFood))
	assert.Equal(t, "#f5576c", CategoryColor(CategoryMedical))
	assert.Equal(t, "💼", ActivityIcon(ActivityOfficeWork))
}

func TestFallbackToOther(t *testing.T) {
	assert.Equal(t, CategoryIcon(Other), CategoryIcon("Gym membership"))
	assert.Equal(t, "#a0aec0", CategoryColor("Gym membership"))
	assert.Equal(t, "📌", ActivityIcon("Gardening"))
	assert.Equal(t, ActivityColor(Other), ActivityColor(""))
}

func TestIsStandard(t *testing.T) {
	assert.True(t, IsStandardCategory(CategoryRent))
	assert.False(t, IsStandardCategory(Other))
	assert.False(t, IsStandardCategory("Gym"))
	assert.True(t, IsStandardActivity(ActivitySleep))
	assert.False(t, IsStandardActivity("Gardening"))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "Gym", Resolve(Other, " Gym "))
	assert.Equal(t, Other, Resolve(Other, "  "))
	assert.Equal(t, CategoryFood, Resolve(CategoryFood, "ignored"))
}

func TestMatch(t *testing.T) {
	assert.True(t, Match("Food", "", "", IsStandardCategory))
	assert.True(t, Match("Food", "Food", "", IsStandardCategory))
	assert.False(t, Match("Travel", "Food", "", IsStandardCategory))

	// Other 无自定义文本：所有非预置值
	assert.True(t, Match("Gym", Other, "", IsStandardCategory))
	assert.True(t, Match(Other, Other, "", IsStandardCategory))
	assert.False(t, Match("Food", Other, "", IsStandardCategory))

	// Other 带自定义文本：子串匹配，不区分大小写
	assert.True(t, Match("Gym Membership", Other, "gym", IsStandardCategory))
	assert.True(t, Match("Food", Other, "OO", IsStandardCategory))
	assert.False(t, Match("Travel", Other, "gym", IsStandardCategory))
}

func TestActivitySet(t *testing.T) {
	s := NewActivitySet(DefaultWorkActivities...)
	assert.True(t, s.Has(ActivityMeetings))
	assert.False(t, s.Has(ActivitySleep))
}
