// Пакет recurrence разворачивает шаблоны событий в конкретные вхождения.
// Все функции чистые: один и тот же набор шаблонов и дата всегда дают
// одинаковый результат.
package recurrence

import (
	"time"

	"rm_planner/internal/models"
)

// DayFormat — формат календарного дня во всём API (таймзоны не учитываются).
const DayFormat = "2006-01-02"

// Occurrence — вычисленное вхождение шаблона на конкретную дату.
// Никогда не сохраняется: пересчитывается при каждом чтении.
type Occurrence struct {
	TemplateID string        `json:"id"`
	Date       string        `json:"date"`
	Name       string        `json:"name"`
	Color      string        `json:"color"`
	Location   string        `json:"location"`
	Notes      string        `json:"notes"`
	Hour       float64       `json:"hour"`
	Duration   int           `json:"duration"`
	Repeat     models.Repeat `json:"repeat"`
	// true — вхождение порождено правилом повторения, а не якорной датой
	Repeated bool `json:"repeated"`
}

// ParseDay разбирает календарный день в формате YYYY-MM-DD.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// RepeatsOn сообщает, порождает ли правило повторения шаблона вхождение
// на указанный день. Якорная дата сюда не входит: target == t.Date всегда
// даёт false, якорь материализуется отдельно в Expand.
func RepeatsOn(t *models.EventTemplate, day string) bool {
	anchor, err := ParseDay(t.Date)
	if err != nil {
		return false
	}
	target, err := ParseDay(day)
	if err != nil {
		return false
	}

	// До якоря и сам якорь — не повторение
	if !target.After(anchor) {
		return false
	}
	// EndDate — последний день серии включительно
	if t.EndDate != "" {
		end, err := ParseDay(t.EndDate)
		if err != nil || target.After(end) {
			return false
		}
	}

	switch t.Repeat {
	case models.RepeatDaily:
		return true
	case models.RepeatWeekly:
		return daysBetween(anchor, target)%7 == 0
	case models.RepeatMonthly:
		// Числа месяца сравниваются буквально: серия с якорем 31-го
		// в коротких месяцах не материализуется вовсе
		return target.Day() == anchor.Day()
	case models.RepeatYearly:
		return target.Day() == anchor.Day() && target.Month() == anchor.Month()
	default:
		return false
	}
}

// Expand возвращает список вхождений для дня day.
// Якорь материализуется всегда, независимо от правила повторения и
// исключений; повторные вхождения получают Repeated=true, а исключения
// подавляют их, не трогая сам шаблон.
func Expand(templates []models.EventTemplate, day string) []Occurrence {
	out := make([]Occurrence, 0, len(templates))
	for i := range templates {
		t := &templates[i]
		if t.Date == day {
			out = append(out, materialize(t, day, false))
			continue
		}
		if t.Repeat == models.RepeatNone || !RepeatsOn(t, day) {
			continue
		}
		if t.HasException(day) {
			continue
		}
		out = append(out, materialize(t, day, true))
	}
	return out
}

func materialize(t *models.EventTemplate, day string, repeated bool) Occurrence {
	return Occurrence{
		TemplateID: t.ID,
		Date:       day,
		Name:       t.Name,
		Color:      t.Color,
		Location:   t.Location,
		Notes:      t.Notes,
		Hour:       t.Hour,
		Duration:   t.Duration,
		Repeat:     t.Repeat,
		Repeated:   repeated,
	}
}
