package models

import (
	"strings"

	"gorm.io/gorm"
)

// Repeat — закрытый набор правил повторения события.
type Repeat string

const (
	RepeatNone    Repeat = "none"
	RepeatDaily   Repeat = "daily"
	RepeatWeekly  Repeat = "weekly"
	RepeatMonthly Repeat = "monthly"
	RepeatYearly  Repeat = "yearly"
)

// Valid проверяет, что значение входит в допустимый набор.
func (r Repeat) Valid() bool {
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return true
	}
	return false
}

// EventTemplate — шаблон события. То, что видит клиент на конкретную дату, —
// производное вхождение, которое считает recurrence.Expand.
type EventTemplate struct {
	ID     string `gorm:"primaryKey" json:"id"` // UUID, выдаётся при создании
	UserID *uint  `gorm:"index" json:"-"`       // nil — общий календарь

	Name     string `json:"name"`
	Color    string `json:"color"`
	Location string `json:"location"`
	Notes    string `json:"notes"`

	Date     string  `gorm:"index;not null" json:"date"` // якорная дата, YYYY-MM-DD
	Hour     float64 `json:"hour"`                       // 14.5 = 14:30
	Duration int     `json:"duration"`                   // минуты

	Repeat Repeat `gorm:"default:none" json:"repeat"`
	// Последний день серии включительно; пустая строка — серия без конца
	EndDate string `json:"endDate,omitempty"`
	// Даты-исключения через запятую, например "2024-01-08,2024-01-15"
	Exceptions string `json:"-"`

	CreatedAt int64          `gorm:"autoCreateTime" json:"-"`
	UpdatedAt int64          `gorm:"autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ExceptionDates возвращает список дат-исключений.
func (t *EventTemplate) ExceptionDates() []string {
	if t.Exceptions == "" {
		return nil
	}
	return strings.Split(t.Exceptions, ",")
}

// HasException сообщает, подавлено ли вхождение на указанный день.
func (t *EventTemplate) HasException(day string) bool {
	for _, d := range t.ExceptionDates() {
		if d == day {
			return true
		}
	}
	return false
}

// AddException добавляет дату-исключение. Повторное добавление — no-op,
// множество исключений не растёт.
func (t *EventTemplate) AddException(day string) {
	if t.HasException(day) {
		return
	}
	if t.Exceptions == "" {
		t.Exceptions = day
		return
	}
	t.Exceptions += "," + day
}
