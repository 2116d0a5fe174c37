package handlers

import (
	"net/http"

	"rm_planner/internal/auth"
	"rm_planner/internal/models"
	"rm_planner/internal/response"
	"rm_planner/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

func setSessionCookie(c *gin.Context, token string) {
	// Session-cookie: живёт до закрытия браузера, недоступна скриптам.
	// Secure не ставим: сервер ходит по http, TLS терминируется снаружи.
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(auth.CookieName, token, 0, "/", "", false, true)
}

// @Summary		Регистрация пользователя
// @Description	Создаёт пользователя и сразу открывает сессию (cookie token)
// @Tags			auth
// @Accept			json
// @Produce		json
// @Param			user	body		CredentialsRequest		true	"Имя пользователя и пароль"
// @Success		201		{object}	response.AuthResponse	"Пользователь создан, сессия открыта"
// @Failure		400		{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		409		{object}	response.ErrorResponse	"Имя занято (USERNAME_TAKEN)"
// @Failure		500		{object}	response.ErrorResponse	"Ошибка сервера (PASSWORD_HASH_ERROR, DB_ERROR)"
// @Router			/api/signup [post]
func Signup(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка валидации данных",
			Details: err.Error(),
		})
		return
	}

	var existing models.User
	if err := storage.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, response.ErrorResponse{
			Code:    "USERNAME_TAKEN",
			Message: "Пользователь с таким именем уже существует",
		})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "PASSWORD_HASH_ERROR",
			Message: "Ошибка при хешировании пароля",
		})
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		Token:        uuid.NewString(),
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка при создании пользователя",
		})
		return
	}

	setSessionCookie(c, user.Token)
	c.JSON(http.StatusCreated, response.AuthResponse{ID: user.ID, Username: user.Username})
}

// @Summary		Авторизация пользователя
// @Description	Проверяет пароль и выдаёт токен сессии в http-only cookie.
// @Description	Токен у аккаунта один: повторный логин заменяет прежнюю сессию.
// @Tags			auth
// @Accept			json
// @Produce		json
// @Param			user	body		CredentialsRequest		true	"Имя пользователя и пароль"
// @Success		200		{object}	response.AuthResponse	"Успешная авторизация"
// @Failure		400		{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		401		{object}	response.ErrorResponse	"Неверные учетные данные (INVALID_CREDENTIALS)"
// @Failure		500		{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/login [post]
func Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Укажите имя пользователя и пароль",
			Details: err.Error(),
		})
		return
	}

	var user models.User
	if err := storage.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{
			Code:    "INVALID_CREDENTIALS",
			Message: "Неверное имя пользователя или пароль",
		})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{
			Code:    "INVALID_CREDENTIALS",
			Message: "Неверное имя пользователя или пароль",
		})
		return
	}

	// Новый токен на каждый логин: прежняя сессия перестаёт действовать
	user.Token = uuid.NewString()
	if err := storage.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка при обновлении сессии",
		})
		return
	}

	setSessionCookie(c, user.Token)
	c.JSON(http.StatusOK, response.AuthResponse{ID: user.ID, Username: user.Username})
}

// @Summary		Выход из сессии
// @Description	Сбрасывает cookie сессии
// @Tags			auth
// @Produce		json
// @Success		200	{object}	response.SuccessResponse	"Сессия закрыта"
// @Router			/api/auth [delete]
func Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Сессия закрыта"})
}
