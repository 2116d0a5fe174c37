package main

import (
	"fmt"
	"log"
	"os"

	_ "rm_planner/docs"
	"rm_planner/internal/auth"
	"rm_planner/internal/handlers"
	"rm_planner/internal/models"
	"rm_planner/internal/storage"
	"rm_planner/internal/tasks"
	"rm_planner/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @Title	Недельный планировщик с повторениями и живой синхронизацией
func main() {
	key := os.Getenv("ENV_CHEK")
	if key == "" {
		fmt.Println("Подключение к .env")
		err := godotenv.Load()
		if err != nil {
			log.Fatal("Ошибка получения .env")
		}
	}

	storage.ConnectDatabase()

	if err := storage.DB.AutoMigrate(&models.User{}, &models.UserSettings{}, &models.EventTemplate{}); err != nil {
		log.Fatal("Ошибка при миграции... ", err.Error())
	}

	storage.InitRedis()

	tasks.InitScheduler()

	go ws.HubInstance.Run()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/ws", ws.ServeWS)

	api := r.Group("/api")
	{
		api.POST("/signup", handlers.Signup)
		api.POST("/login", handlers.Login)
		api.DELETE("/auth", handlers.Logout)

		// Общий календарь доступен без сессии
		api.GET("/shared-events", handlers.GetSharedEventsHandler)
		api.POST("/shared-events", handlers.PostSharedEventsHandler)
	}

	secure := api.Group("", auth.AuthMiddleware())
	{
		secure.GET("/events", handlers.GetEventsHandler)
		secure.POST("/events", handlers.PostEventsHandler)
		secure.POST("/events/exception", handlers.AddExceptionHandler)
		secure.POST("/events/enddate", handlers.SetEndDateHandler)
		secure.POST("/events/split", handlers.SplitSeriesHandler)
		secure.POST("/events/import-events", handlers.ImportEventsHandler)
		secure.DELETE("/events/all", handlers.DeleteAllEventsHandler)

		secure.GET("/settings", handlers.GetSettingsHandler)
		secure.POST("/settings", handlers.PostSettingsHandler)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Ошибка запуска сервера...", err.Error())
	}
}
