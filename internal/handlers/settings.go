package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"rm_planner/internal/models"
	"rm_planner/internal/response"
	"rm_planner/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// @Summary		Настройки пользователя
// @Description	Возвращает сохранённый документ настроек; если настроек нет — пустой объект
// @Tags			settings
// @Produce		json
// @Success		200	{object}	map[string]interface{}
// @Failure		401	{object}	response.ErrorResponse	"UNAUTHORIZED"
// @Router			/api/settings [get]
func GetSettingsHandler(c *gin.Context) {
	userID := c.GetUint("userID")

	var settings models.UserSettings
	if err := storage.DB.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte("{}"))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(settings.Data))
}

// @Summary		Сохранение настроек
// @Description	Принимает произвольный JSON-объект и сохраняет его целиком (upsert)
// @Tags			settings
// @Accept			json
// @Produce		json
// @Success		200	{object}	map[string]interface{}	"Сохранённый документ"
// @Failure		400	{object}	response.ErrorResponse	"VALIDATION_ERROR"
// @Failure		401	{object}	response.ErrorResponse	"UNAUTHORIZED"
// @Router			/api/settings [post]
func PostSettingsHandler(c *gin.Context) {
	userID := c.GetUint("userID")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ожидается JSON-документ настроек",
		})
		return
	}

	settings := models.UserSettings{UserID: userID, Data: string(body)}
	err = storage.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&settings).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка сохранения настроек",
			Details: err.Error(),
		})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
