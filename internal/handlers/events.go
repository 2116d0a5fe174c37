package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"rm_planner/internal/models"
	"rm_planner/internal/recurrence"
	"rm_planner/internal/response"
	"rm_planner/internal/series"
	"rm_planner/internal/storage"

	"github.com/gin-gonic/gin"
)

// EventPayload — событие в том виде, в котором им обмениваются клиент и
// сервер: исключения списком, плюс флаг repeated у материализованных
// вхождений.
type EventPayload struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Color      string        `json:"color"`
	Location   string        `json:"location"`
	Notes      string        `json:"notes"`
	Hour       float64       `json:"hour"`
	Duration   int           `json:"duration"`
	Repeat     models.Repeat `json:"repeat"`
	EndDate    string        `json:"endDate,omitempty"`
	Exceptions []string      `json:"exceptions,omitempty"`
	Repeated   bool          `json:"repeated,omitempty"`
}

func (p *EventPayload) toTemplate() models.EventTemplate {
	return models.EventTemplate{
		ID:         p.ID,
		Name:       p.Name,
		Color:      p.Color,
		Location:   p.Location,
		Notes:      p.Notes,
		Hour:       p.Hour,
		Duration:   p.Duration,
		Repeat:     p.Repeat,
		EndDate:    p.EndDate,
		Exceptions: strings.Join(p.Exceptions, ","),
	}
}

func currentUserID(c *gin.Context) *uint {
	id := c.GetUint("userID")
	return &id
}

// dayView отдаёт развёрнутый день владельца: сперва из Redis-кэша,
// при промахе — полная загрузка шаблонов и прогон через движок повторений.
func dayView(c *gin.Context, userID *uint) {
	date := c.Query("date")
	if _, err := recurrence.ParseDay(date); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Некорректный параметр date, ожидается YYYY-MM-DD",
		})
		return
	}

	scope := storage.ScopeKey(userID)
	if cached, ok := storage.CachedDayView(scope, date); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	templates, err := storage.LoadTemplates(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка загрузки событий",
			Details: err.Error(),
		})
		return
	}

	occurrences := recurrence.Expand(templates, date)
	view := make(map[string]recurrence.Occurrence, len(occurrences))
	for _, occ := range occurrences {
		view[occ.TemplateID] = occ
	}

	payload, err := json.Marshal(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Ошибка сериализации событий",
		})
		return
	}
	storage.StoreDayView(scope, date, payload)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// replaceDay принимает карту id→событие на день и замещает одиночные
// события этого дня. Материализованные повторы (repeated=true) в payload
// игнорируются: их правки идут через exception/enddate/split.
func replaceDay(c *gin.Context, userID *uint) {
	date := c.Query("date")
	var incoming map[string]EventPayload
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка разбора событий",
			Details: err.Error(),
		})
		return
	}

	templates := make([]models.EventTemplate, 0, len(incoming))
	for id, p := range incoming {
		if p.Repeated {
			continue
		}
		if p.ID == "" {
			p.ID = id
		}
		templates = append(templates, p.toTemplate())
	}

	if err := series.ReplaceDay(userID, date, templates); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Не удалось сохранить события",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, incoming)
}

// @Summary		События на день
// @Description	Возвращает карту id→вхождение для указанной даты с учётом правил повторения и исключений
// @Tags			events
// @Produce		json
// @Param			date	query		string	true	"Дата, YYYY-MM-DD"
// @Success		200		{object}	map[string]recurrence.Occurrence
// @Failure		400		{object}	response.ErrorResponse	"Некорректная дата (VALIDATION_ERROR)"
// @Failure		401		{object}	response.ErrorResponse	"Нет сессии (UNAUTHORIZED)"
// @Router			/api/events [get]
func GetEventsHandler(c *gin.Context) {
	dayView(c, currentUserID(c))
}

// @Summary		Сохранение событий дня
// @Description	Замещает одиночные события, заякоренные на дату; серии с якорем в другие дни не трогаются
// @Tags			events
// @Accept			json
// @Produce		json
// @Param			date	query		string					true	"Дата, YYYY-MM-DD"
// @Param			events	body		map[string]EventPayload	true	"Карта id→событие"
// @Success		200		{object}	map[string]EventPayload
// @Failure		400		{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		401		{object}	response.ErrorResponse	"Нет сессии (UNAUTHORIZED)"
// @Router			/api/events [post]
func PostEventsHandler(c *gin.Context) {
	replaceDay(c, currentUserID(c))
}

type OccurrenceRef struct {
	EventID string `json:"eventId" binding:"required"`
	Date    string `json:"date" binding:"required"`
}

func seriesError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, series.ErrNotFound):
		c.JSON(http.StatusNotFound, response.ErrorResponse{
			Code:    "EVENT_NOT_FOUND",
			Message: "Шаблон события не найден",
		})
	case errors.Is(err, series.ErrNotRepeating):
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "NOT_REPEATING",
			Message: "У события нет правила повторения",
		})
	default:
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Не удалось применить правку",
			Details: err.Error(),
		})
	}
}

// @Summary		Исключение из серии
// @Description	Подавляет одно вхождение повторяющегося события («удалить только это»)
// @Tags			events
// @Accept			json
// @Produce		json
// @Param			ref	body		OccurrenceRef	true	"Идентификатор шаблона и дата"
// @Success		200	{object}	response.SuccessResponse
// @Failure		400	{object}	response.ErrorResponse	"VALIDATION_ERROR, NOT_REPEATING"
// @Failure		404	{object}	response.ErrorResponse	"EVENT_NOT_FOUND"
// @Router			/api/events/exception [post]
func AddExceptionHandler(c *gin.Context) {
	var req OccurrenceRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Укажите eventId и date",
			Details: err.Error(),
		})
		return
	}
	if err := series.AddException(currentUserID(c), req.EventID, req.Date); err != nil {
		seriesError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Вхождение подавлено"})
}

// @Summary		Обрезание серии
// @Description	Ставит серии дату окончания днём раньше указанной даты («удалить это и все будущие»)
// @Tags			events
// @Accept			json
// @Produce		json
// @Param			ref	body		OccurrenceRef	true	"Идентификатор шаблона и дата"
// @Success		200	{object}	response.SuccessResponse
// @Failure		400	{object}	response.ErrorResponse	"VALIDATION_ERROR, NOT_REPEATING"
// @Failure		404	{object}	response.ErrorResponse	"EVENT_NOT_FOUND"
// @Router			/api/events/enddate [post]
func SetEndDateHandler(c *gin.Context) {
	var req OccurrenceRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Укажите eventId и date",
			Details: err.Error(),
		})
		return
	}
	if err := series.Truncate(currentUserID(c), req.EventID, req.Date); err != nil {
		seriesError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Серия обрезана"})
}

type SplitRequest struct {
	EventID string       `json:"eventId" binding:"required"`
	Date    string       `json:"date" binding:"required"`
	Event   EventPayload `json:"event" binding:"required"`
}

// @Summary		Разрез серии
// @Description	Правка «это и все будущие»: исходная серия обрезается, отредактированные поля переезжают в новую серию с якорем в указанной дате
// @Tags			events
// @Accept			json
// @Produce		json
// @Param			split	body		SplitRequest	true	"Точка разреза и новые поля"
// @Success		200		{object}	models.EventTemplate	"Новая серия"
// @Failure		400		{object}	response.ErrorResponse	"VALIDATION_ERROR, NOT_REPEATING"
// @Failure		404		{object}	response.ErrorResponse	"EVENT_NOT_FOUND"
// @Router			/api/events/split [post]
func SplitSeriesHandler(c *gin.Context) {
	var req SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Укажите eventId, date и event",
			Details: err.Error(),
		})
		return
	}
	fresh, err := series.Split(currentUserID(c), req.EventID, req.Date, req.Event.toTemplate())
	if err != nil {
		seriesError(c, err)
		return
	}
	c.JSON(http.StatusOK, fresh)
}

// @Summary		Импорт событий
// @Description	Вставляет пачку шаблонов, сгруппированных по датам. Весь payload валидируется до первой записи
// @Tags			events
// @Accept			json
// @Produce		json
// @Param			events	body		map[string]map[string]EventPayload	true	"Карта дата→(id→событие)"
// @Success		200		{object}	map[string]int					"Количество импортированных шаблонов"
// @Failure		400		{object}	response.ErrorResponse			"VALIDATION_ERROR"
// @Router			/api/events/import-events [post]
func ImportEventsHandler(c *gin.Context) {
	var byDate map[string]map[string]EventPayload
	if err := c.ShouldBindJSON(&byDate); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка разбора payload импорта",
			Details: err.Error(),
		})
		return
	}

	templates := make([]models.EventTemplate, 0)
	for date, events := range byDate {
		for id, p := range events {
			if p.ID == "" {
				p.ID = id
			}
			t := p.toTemplate()
			t.Date = date
			templates = append(templates, t)
		}
	}

	count, err := series.Import(currentUserID(c), templates)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Импорт отклонён, ничего не записано",
			Details: err.Error(),
		})
		return
	}
	log.Printf("Импортировано шаблонов: %d", count)
	c.JSON(http.StatusOK, gin.H{"imported": count})
}

// @Summary		Удаление всех событий
// @Description	Удаляет все шаблоны текущего пользователя
// @Tags			events
// @Produce		json
// @Success		200	{object}	response.SuccessResponse
// @Failure		500	{object}	response.ErrorResponse	"DB_ERROR"
// @Router			/api/events/all [delete]
func DeleteAllEventsHandler(c *gin.Context) {
	if err := series.DeleteAll(currentUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка удаления событий",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Все события удалены"})
}

// @Summary		События общего календаря
// @Description	То же, что /api/events, но для общего календаря и без авторизации
// @Tags			shared
// @Produce		json
// @Param			date	query		string	true	"Дата, YYYY-MM-DD"
// @Success		200		{object}	map[string]recurrence.Occurrence
// @Failure		400		{object}	response.ErrorResponse	"VALIDATION_ERROR"
// @Router			/api/shared-events [get]
func GetSharedEventsHandler(c *gin.Context) {
	dayView(c, nil)
}

// @Summary		Сохранение общего календаря
// @Description	Замещает одиночные события общего календаря на дату
// @Tags			shared
// @Accept			json
// @Produce		json
// @Param			date	query		string					true	"Дата, YYYY-MM-DD"
// @Param			events	body		map[string]EventPayload	true	"Карта id→событие"
// @Success		200		{object}	map[string]EventPayload
// @Failure		400		{object}	response.ErrorResponse	"VALIDATION_ERROR"
// @Router			/api/shared-events [post]
func PostSharedEventsHandler(c *gin.Context) {
	replaceDay(c, nil)
}
