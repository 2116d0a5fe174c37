package response

// SuccessResponse представляет успешный ответ API
type SuccessResponse struct {
	Message string `json:"message" example:"Операция успешно выполнена"`
}

// ErrorResponse представляет ответ с ошибкой API
type ErrorResponse struct {
	// Код ошибки для программной обработки
	// example: VALIDATION_ERROR
	Code string `json:"code"`

	// Человекочитаемое сообщение об ошибке
	// example: Ошибка валидации данных
	Message string `json:"message"`

	// Дополнительные детали об ошибке (опционально)
	// example: некорректная дата "2024-13-01"
	Details string `json:"details,omitempty"`
}

// AuthResponse представляет ответ успешной авторизации
type AuthResponse struct {
	// Идентификатор пользователя
	ID uint `json:"id"`

	// Имя пользователя
	Username string `json:"username"`
}
