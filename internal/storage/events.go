package storage

import (
	"fmt"

	"rm_planner/internal/models"
)

// ScopeKey возвращает ключ владельца календаря для кэшей и логов.
// nil — общий календарь.
func ScopeKey(userID *uint) string {
	if userID == nil {
		return "shared"
	}
	return fmt.Sprintf("user_%d", *userID)
}

// LoadTemplates загружает все шаблоны владельца независимо от даты:
// движку повторений нужен полный набор, потому что на запрошенный день
// может попадать серия с якорем в любом прошлом.
func LoadTemplates(userID *uint) ([]models.EventTemplate, error) {
	var templates []models.EventTemplate
	q := DB.Model(&models.EventTemplate{})
	if userID == nil {
		q = q.Where("user_id IS NULL")
	} else {
		q = q.Where("user_id = ?", *userID)
	}
	if err := q.Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}
