package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	v1 "topichub/api/v1"
	"topichub/config"
	"topichub/dao"
	"topichub/internal/blob"
	myvalidator "topichub/internal/validator"
	"topichub/middleware"
	"topichub/model"
	"topichub/service"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../"
	}
	config.InitConfig(configPath)
	config.InitRedis()

	db, err := gorm.Open(mysql.Open(config.GlobalConfig.MySQL.DSN), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Topic{}); err != nil {
		panic(err)
	}

	blobStore, err := blob.NewS3Store(
		config.GlobalConfig.S3.Region,
		config.GlobalConfig.S3.Bucket,
		config.GlobalConfig.S3.PublicBaseURL,
	)
	if err != nil {
		panic(err)
	}

	userDAO := dao.NewUserDAO(db)
	topicDAO := dao.NewTopicDAO(db)
	userService := service.NewUserService(userDAO, config.RedisClient)
	topicService := service.NewTopicService(topicDAO, blobStore)
	userAPI := v1.NewUserAPI(userService)
	topicAPI := v1.NewTopicAPI(topicService)

	r := gin.Default()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("category", myvalidator.IsCategory); err != nil {
			panic(err)
		}
	}

	// Public routes: auth plus the read side of the feed.
	public := r.Group("/api/v1")
	{
		public.POST("/users/register", userAPI.Register)
		loginLimiter := middleware.RateLimiter(config.RedisClient, "login", 5, time.Minute)
		public.POST("/users/login", loginLimiter, userAPI.Login)
		public.POST("/users/refresh", userAPI.RefreshToken)
		public.GET("/topics", topicAPI.ListPublished)
		public.GET("/topics/:id", topicAPI.Get)
	}

	// Private routes: authoring lifecycle requires a signed-in user.
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(userService.Session))
	{
		private.POST("/users/logout", userAPI.Logout)
		private.GET("/users/me", userAPI.Me)
		writeLimiter := middleware.RateLimiter(config.RedisClient, "topic_write", 30, time.Minute)
		private.POST("/topics", writeLimiter, topicAPI.Begin)
		private.PUT("/topics/:id", writeLimiter, topicAPI.Persist)
		private.DELETE("/topics/:id", topicAPI.Delete)
		private.GET("/drafts", topicAPI.ListDrafts)
	}

	if err := r.Run(config.GlobalConfig.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
