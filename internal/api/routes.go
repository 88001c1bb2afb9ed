// Package api contains the API routes for the User Directory API
package api

import (
	"fmt"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/ampweb/userdirapi/internal/api/handlers"
	"github.com/ampweb/userdirapi/internal/api/middleware"
	"github.com/ampweb/userdirapi/internal/config"
	"github.com/ampweb/userdirapi/internal/service"
	"github.com/ampweb/userdirapi/pkg/utils/response"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes configures the routes for the API
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *gorm.DB, redisClient *redis.Client) {

	// Create a group for all API routes
	api := e.Group("/api")

	// Index route
	api.GET("/", indexRoute)

	var directory service.DirectoryAuthenticator
	if cfg.AuthMode == config.AuthModeLdap {
		directory = service.NewLdapAuthenticator(cfg)
	}
	authService := service.NewAuthService(db, redisClient, cfg, directory)
	userService := service.NewUserService(db, redisClient)
	mediaService := service.NewMediaService(db, redisClient)

	// Auth routes, login is the only unprotected route
	authHandler := handlers.NewAuthHandler(cfg, authService)
	authGroup := api.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/check", authHandler.Check)

	// User routes (protected)
	userHandler := handlers.NewUserHandler(userService)
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware(authService))
	userGroup.POST("/get", userHandler.GetUsers)
	userGroup.POST("", userHandler.CreateUsers)
	userGroup.PUT("", userHandler.UpdateUsers)
	userGroup.DELETE("", userHandler.DeleteUsers)
	userGroup.PUT("/profile", userHandler.UpdateProfile)

	// Media routes (protected)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	mediaGroup := api.Group("/users/media")
	mediaGroup.Use(middleware.AuthMiddleware(authService))
	mediaGroup.POST("", mediaHandler.AddMedia)
	mediaGroup.PUT("", mediaHandler.UpdateMedia)
	mediaGroup.DELETE("", mediaHandler.DeleteMedia)

}

// indexRoute sets up the index route for the API
func indexRoute(c echo.Context) error {
	cfg, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	message := fmt.Sprintf("%s %s", cfg.APIName, cfg.APIVersion)
	return response.SuccessResponse(c, message)
}
