package tasks

import (
	"log"
	"time"

	"rm_planner/internal/models"
	"rm_planner/internal/storage"

	"github.com/robfig/cron/v3"
)

// PurgeDeletedTemplates окончательно удаляет шаблоны, помеченные
// удалёнными больше 30 дней назад. До этого момента мягкое удаление
// оставляет шанс восстановить календарь руками.
func PurgeDeletedTemplates() {
	cutoff := time.Now().AddDate(0, 0, -30)
	res := storage.DB.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&models.EventTemplate{})
	if res.Error != nil {
		log.Println("Ошибка очистки удалённых шаблонов:", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Окончательно удалено шаблонов: %d", res.RowsAffected)
	}
}

// PurgeOrphanSettings удаляет настройки пользователей, которых больше нет.
func PurgeOrphanSettings() {
	res := storage.DB.Unscoped().
		Where("user_id NOT IN (SELECT id FROM users WHERE deleted_at IS NULL)").
		Delete(&models.UserSettings{})
	if res.Error != nil {
		log.Println("Ошибка очистки осиротевших настроек:", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Удалено осиротевших настроек: %d", res.RowsAffected)
	}
}

// InitScheduler инициализирует планировщик cron-задач.
func InitScheduler() *cron.Cron {
	c := cron.New(cron.WithSeconds())

	// Ночная уборка в 03:00
	_, err := c.AddFunc("0 0 3 * * *", PurgeDeletedTemplates)
	if err != nil {
		log.Println("Ошибка запуска cron-задачи PurgeDeletedTemplates:", err)
	}
	_, err = c.AddFunc("0 30 3 * * *", PurgeOrphanSettings)
	if err != nil {
		log.Println("Ошибка запуска cron-задачи PurgeOrphanSettings:", err)
	}

	c.Start()
	return c
}
