package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"

	"rm_planner/internal/models"
)

func tmpl(date string, repeat models.Repeat) models.EventTemplate {
	return models.EventTemplate{
		ID:       "t-" + date + "-" + string(repeat),
		Name:     "Тестовое событие",
		Date:     date,
		Hour:     9.5,
		Duration: 30,
		Repeat:   repeat,
	}
}

func TestAnchorAlwaysMaterializes(t *testing.T) {
	for _, repeat := range []models.Repeat{
		models.RepeatNone, models.RepeatDaily, models.RepeatWeekly,
		models.RepeatMonthly, models.RepeatYearly,
	} {
		tm := tmpl("2024-01-01", repeat)
		occ := Expand([]models.EventTemplate{tm}, "2024-01-01")
		require.Len(t, occ, 1, "repeat=%s", repeat)
		assert.False(t, occ[0].Repeated, "якорь не должен помечаться как повтор (repeat=%s)", repeat)
	}
}

func TestAnchorNotDoubledByRule(t *testing.T) {
	tm := tmpl("2024-01-01", models.RepeatDaily)
	// Сам якорь правило не порождает, этим занимается Expand
	assert.False(t, RepeatsOn(&tm, "2024-01-01"))

	occ := Expand([]models.EventTemplate{tm}, "2024-01-02")
	require.Len(t, occ, 1)
	assert.True(t, occ[0].Repeated)
}

func TestWeeklyPeriodicity(t *testing.T) {
	tm := tmpl("2024-01-01", models.RepeatWeekly)
	assert.True(t, RepeatsOn(&tm, "2024-01-08"))
	assert.True(t, RepeatsOn(&tm, "2024-01-15"))
	assert.False(t, RepeatsOn(&tm, "2024-01-10"))
}

func TestBeforeAnchorNeverRepeats(t *testing.T) {
	tm := tmpl("2024-01-15", models.RepeatDaily)
	assert.False(t, RepeatsOn(&tm, "2024-01-14"))
	assert.Empty(t, Expand([]models.EventTemplate{tm}, "2024-01-08"))
}

func TestEndDateIsInclusive(t *testing.T) {
	tm := tmpl("2024-01-01", models.RepeatDaily)
	tm.EndDate = "2024-01-10"
	assert.True(t, RepeatsOn(&tm, "2024-01-10"), "последний день серии входит в неё")
	assert.False(t, RepeatsOn(&tm, "2024-01-11"), "день после EndDate уже не входит")
}

func TestExceptionSuppressionIsNonDestructive(t *testing.T) {
	tm := tmpl("2024-01-01", models.RepeatWeekly)
	tm.AddException("2024-01-08")
	tm.AddException("2024-01-08") // повтор — no-op

	assert.Empty(t, Expand([]models.EventTemplate{tm}, "2024-01-08"))

	occ := Expand([]models.EventTemplate{tm}, "2024-01-15")
	require.Len(t, occ, 1, "исключение не должно задевать соседние недели")
	assert.Equal(t, "2024-01-08", tm.Exceptions)
}

func TestExceptionDoesNotSuppressAnchor(t *testing.T) {
	tm := tmpl("2024-01-01", models.RepeatDaily)
	tm.AddException("2024-01-01")
	occ := Expand([]models.EventTemplate{tm}, "2024-01-01")
	require.Len(t, occ, 1)
	assert.False(t, occ[0].Repeated)
}

func TestMonthlySkipsShortMonths(t *testing.T) {
	tm := tmpl("2024-01-31", models.RepeatMonthly)
	// В феврале 31-го нет — серия в этом месяце не материализуется вовсе
	for d := 1; d <= 29; d++ {
		day := time.Date(2024, 2, d, 0, 0, 0, 0, time.UTC).Format(DayFormat)
		assert.False(t, RepeatsOn(&tm, day), day)
	}
	assert.True(t, RepeatsOn(&tm, "2024-03-31"))
	assert.True(t, RepeatsOn(&tm, "2024-05-31"))
	assert.False(t, RepeatsOn(&tm, "2024-04-30"))
}

func TestYearlyMatchesMonthAndDay(t *testing.T) {
	tm := tmpl("2024-03-05", models.RepeatYearly)
	assert.True(t, RepeatsOn(&tm, "2025-03-05"))
	assert.False(t, RepeatsOn(&tm, "2025-03-06"))
	assert.False(t, RepeatsOn(&tm, "2025-04-05"))
}

func TestExpandIsDeterministic(t *testing.T) {
	set := []models.EventTemplate{
		tmpl("2024-01-01", models.RepeatWeekly),
		tmpl("2024-01-03", models.RepeatNone),
		tmpl("2023-12-15", models.RepeatDaily),
	}
	first := Expand(set, "2024-01-15")
	second := Expand(set, "2024-01-15")
	assert.Equal(t, first, second)
}

// Сверка с RFC-5545: наши правила daily/weekly/monthly/yearly должны давать
// те же дни, что и соответствующий RRULE (включая пропуск коротких месяцев).
func TestRulesAgreeWithRRule(t *testing.T) {
	cases := []struct {
		repeat models.Repeat
		freq   rrule.Frequency
		anchor string
		end    string
	}{
		{models.RepeatDaily, rrule.DAILY, "2024-01-01", "2024-06-30"},
		{models.RepeatWeekly, rrule.WEEKLY, "2024-01-02", ""},
		{models.RepeatMonthly, rrule.MONTHLY, "2024-01-31", ""},
		{models.RepeatYearly, rrule.YEARLY, "2024-02-29", ""},
	}

	for _, tc := range cases {
		tm := tmpl(tc.anchor, tc.repeat)
		tm.EndDate = tc.end

		anchor, err := ParseDay(tc.anchor)
		require.NoError(t, err)

		opt := rrule.ROption{Freq: tc.freq, Dtstart: anchor}
		if tc.end != "" {
			until, err := ParseDay(tc.end)
			require.NoError(t, err)
			opt.Until = until
		}
		rule, err := rrule.NewRRule(opt)
		require.NoError(t, err)

		for i := 0; i < 800; i++ {
			day := anchor.AddDate(0, 0, i)
			dayStr := day.Format(DayFormat)
			// RRULE включает DTSTART, у нас якорь идёт отдельной веткой
			ours := RepeatsOn(&tm, dayStr) || dayStr == tc.anchor
			theirs := len(rule.Between(day, day, true)) > 0
			assert.Equal(t, theirs, ours, "repeat=%s day=%s", tc.repeat, dayStr)
		}
	}
}
