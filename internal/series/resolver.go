// Пакет series реализует семантику правок «только это вхождение» и
// «это и все будущие» поверх хранилища шаблонов и движка повторений.
package series

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rm_planner/internal/models"
	"rm_planner/internal/recurrence"
	"rm_planner/internal/storage"
)

var (
	ErrNotFound     = errors.New("шаблон события не найден")
	ErrNotRepeating = errors.New("у события нет правила повторения")
)

// Validate проверяет шаблон перед записью; ошибки здесь означают
// VALIDATION_ERROR до каких-либо записей в базу.
func Validate(t *models.EventTemplate) error {
	if _, err := recurrence.ParseDay(t.Date); err != nil {
		return fmt.Errorf("некорректная дата %q: %w", t.Date, err)
	}
	if t.Hour < 0 {
		return fmt.Errorf("отрицательный час начала: %v", t.Hour)
	}
	if t.Duration < 0 {
		return fmt.Errorf("отрицательная длительность: %d", t.Duration)
	}
	if !t.Repeat.Valid() {
		return fmt.Errorf("неизвестное правило повторения %q", t.Repeat)
	}
	if t.EndDate != "" && t.Repeat != models.RepeatNone {
		if _, err := recurrence.ParseDay(t.EndDate); err != nil {
			return fmt.Errorf("некорректная дата окончания %q: %w", t.EndDate, err)
		}
	}
	return nil
}

// Normalize приводит шаблон к каноничному виду: для одиночных событий
// EndDate и исключения не имеют смысла и вычищаются.
func Normalize(t *models.EventTemplate) {
	if t.Repeat == "" {
		t.Repeat = models.RepeatNone
	}
	if t.Repeat == models.RepeatNone {
		t.EndDate = ""
		t.Exceptions = ""
	}
}

// DayBefore возвращает предыдущий календарный день.
func DayBefore(day string) (string, error) {
	d, err := recurrence.ParseDay(day)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, -1).Format(recurrence.DayFormat), nil
}

// SplitTemplates — чистая часть правки «это и все будущие»: исходная серия
// обрезается днём перед точкой разреза, а отредактированные поля переезжают
// в новый шаблон с якорем в точке разреза и исходной датой окончания.
// До точки разреза поведение пары совпадает с поведением исходной серии.
func SplitTemplates(t models.EventTemplate, day string, edited models.EventTemplate) (models.EventTemplate, models.EventTemplate, error) {
	cut, err := DayBefore(day)
	if err != nil {
		return models.EventTemplate{}, models.EventTemplate{}, err
	}

	truncated := t
	truncated.EndDate = cut

	fresh := models.EventTemplate{
		ID:       uuid.NewString(),
		UserID:   t.UserID,
		Name:     edited.Name,
		Color:    edited.Color,
		Location: edited.Location,
		Notes:    edited.Notes,
		Date:     day,
		Hour:     edited.Hour,
		Duration: edited.Duration,
		Repeat:   t.Repeat,
		EndDate:  t.EndDate,
		// Подавленные даты остаются подавленными и после разреза
		Exceptions: t.Exceptions,
	}
	return truncated, fresh, nil
}

func findTemplate(userID *uint, id string) (*models.EventTemplate, error) {
	var t models.EventTemplate
	q := storage.DB.Where("id = ?", id)
	if userID == nil {
		q = q.Where("user_id IS NULL")
	} else {
		q = q.Where("user_id = ?", *userID)
	}
	if err := q.First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// AddException подавляет одно вхождение серии, не трогая сам шаблон.
// Повторное добавление той же даты — идемпотентный no-op.
func AddException(userID *uint, id, day string) error {
	if _, err := recurrence.ParseDay(day); err != nil {
		return fmt.Errorf("некорректная дата %q: %w", day, err)
	}
	t, err := findTemplate(userID, id)
	if err != nil {
		return err
	}
	if t.Repeat == models.RepeatNone {
		// Для одиночного события исключения неосмысленны
		return ErrNotRepeating
	}
	if t.HasException(day) {
		return nil
	}
	t.AddException(day)
	if err := storage.DB.Save(t).Error; err != nil {
		return err
	}
	storage.InvalidateScope(storage.ScopeKey(userID))
	return nil
}

// Truncate обрезает серию: последним днём становится день перед day.
// Это же — удаление «этого и всех будущих» вхождений.
func Truncate(userID *uint, id, day string) error {
	cut, err := DayBefore(day)
	if err != nil {
		return fmt.Errorf("некорректная дата %q: %w", day, err)
	}
	t, err := findTemplate(userID, id)
	if err != nil {
		return err
	}
	if t.Repeat == models.RepeatNone {
		return ErrNotRepeating
	}
	t.EndDate = cut
	if err := storage.DB.Save(t).Error; err != nil {
		return err
	}
	storage.InvalidateScope(storage.ScopeKey(userID))
	return nil
}

// Split выполняет правку «это и все будущие»: обрезает исходную серию и
// создаёт новую с отредактированными полями. Обе записи идут в одной
// транзакции, половинчатых разрезов не бывает.
func Split(userID *uint, id, day string, edited models.EventTemplate) (*models.EventTemplate, error) {
	t, err := findTemplate(userID, id)
	if err != nil {
		return nil, err
	}
	if t.Repeat == models.RepeatNone {
		return nil, ErrNotRepeating
	}
	truncated, fresh, err := SplitTemplates(*t, day, edited)
	if err != nil {
		return nil, err
	}
	err = storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&truncated).Error; err != nil {
			return err
		}
		return tx.Create(&fresh).Error
	})
	if err != nil {
		return nil, err
	}
	storage.InvalidateScope(storage.ScopeKey(userID))
	return &fresh, nil
}

// ReplaceDay замещает одиночные события, заякоренные на day: отсутствующие
// в наборе удаляются, присланные вставляются или обновляются. Повторяющиеся
// шаблоны с якорем в другие дни при этом не трогаются — иначе правка одного
// дня стирала бы серии, которые на него материализуются.
func ReplaceDay(userID *uint, day string, incoming []models.EventTemplate) error {
	if _, err := recurrence.ParseDay(day); err != nil {
		return fmt.Errorf("некорректная дата %q: %w", day, err)
	}

	for i := range incoming {
		incoming[i].UserID = userID
		incoming[i].Date = day
		if incoming[i].ID == "" {
			incoming[i].ID = uuid.NewString()
		}
		Normalize(&incoming[i])
		if err := Validate(&incoming[i]); err != nil {
			return err
		}
	}

	keep := make([]string, 0, len(incoming))
	for i := range incoming {
		keep = append(keep, incoming[i].ID)
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		// Развёрнутый день не несёт EndDate и исключения, поэтому при
		// перезаписи дня состояние серии берётся из базы: иначе обычный
		// GET→POST обнулял бы обрезание и воскрешал подавленные вхождения.
		// Эти поля меняются только через exception/enddate/split.
		if len(keep) > 0 {
			var existing []models.EventTemplate
			eq := tx.Where("id IN ?", keep)
			if userID == nil {
				eq = eq.Where("user_id IS NULL")
			} else {
				eq = eq.Where("user_id = ?", *userID)
			}
			if err := eq.Find(&existing).Error; err != nil {
				return err
			}
			byID := make(map[string]*models.EventTemplate, len(existing))
			for i := range existing {
				byID[existing[i].ID] = &existing[i]
			}
			for i := range incoming {
				if incoming[i].Repeat == models.RepeatNone {
					continue
				}
				prev, ok := byID[incoming[i].ID]
				if !ok {
					continue
				}
				if incoming[i].EndDate == "" {
					incoming[i].EndDate = prev.EndDate
				}
				if incoming[i].Exceptions == "" {
					incoming[i].Exceptions = prev.Exceptions
				}
			}
		}

		q := tx.Where("date = ? AND repeat = ?", day, models.RepeatNone)
		if userID == nil {
			q = q.Where("user_id IS NULL")
		} else {
			q = q.Where("user_id = ?", *userID)
		}
		if len(keep) > 0 {
			q = q.Where("id NOT IN ?", keep)
		}
		if err := q.Delete(&models.EventTemplate{}).Error; err != nil {
			return err
		}
		for i := range incoming {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&incoming[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	storage.InvalidateScope(storage.ScopeKey(userID))
	return nil
}

// Import вставляет пачку шаблонов одной логической операцией: сначала
// валидируется весь набор, и только потом начинаются записи. Кривой payload
// не может испортить уже сохранённые шаблоны.
func Import(userID *uint, templates []models.EventTemplate) (int, error) {
	for i := range templates {
		templates[i].UserID = userID
		if templates[i].ID == "" {
			templates[i].ID = uuid.NewString()
		}
		Normalize(&templates[i])
		if err := Validate(&templates[i]); err != nil {
			return 0, err
		}
	}
	if len(templates) == 0 {
		return 0, nil
	}
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		for i := range templates {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&templates[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	storage.InvalidateScope(storage.ScopeKey(userID))
	return len(templates), nil
}

// DeleteAll удаляет все шаблоны владельца.
func DeleteAll(userID *uint) error {
	q := storage.DB
	if userID == nil {
		q = q.Where("user_id IS NULL")
	} else {
		q = q.Where("user_id = ?", *userID)
	}
	if err := q.Delete(&models.EventTemplate{}).Error; err != nil {
		return err
	}
	storage.InvalidateScope(storage.ScopeKey(userID))
	return nil
}
