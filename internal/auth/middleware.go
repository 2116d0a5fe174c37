package auth

import (
	"net/http"

	"rm_planner/internal/models"
	"rm_planner/internal/response"
	"rm_planner/internal/storage"

	"github.com/gin-gonic/gin"
)

// CookieName — имя cookie с токеном сессии.
const CookieName = "token"

// AuthMiddleware проверяет токен сессии из cookie и кладёт userID в контекст
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, response.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "Требуется авторизация",
			})
			c.Abort()
			return
		}

		var user models.User
		if err := storage.DB.Where("token = ?", token).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, response.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "Неверный или устаревший токен сессии",
			})
			c.Abort()
			return
		}

		c.Set("userID", user.ID)
		c.Next()
	}
}
