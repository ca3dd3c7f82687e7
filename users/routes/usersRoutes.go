package router

import (
	"invoiceflow-backend/db/models"
	"invoiceflow-backend/middleware"
	"invoiceflow-backend/users/controllers"
	"invoiceflow-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
)

func InitRoutes(
	app *fiber.App,
	appContext *middleware.AppContext,
	userRepo repositories.UserRepository,
) {
	userController := &controllers.UserController{
		UserRepo: userRepo,
	}

	// Protected routes (require authentication)
	userRoutes := app.Group("/api/v1/users")
	userRoutes.Use(middleware.ProtectedRoute(appContext))
	{
		// Specific routes first
		userRoutes.Get("/me", userController.GetCurrentUser)

		userRoutes.Post("/", middleware.RequireRoles(models.AdminRole), userController.CreateUser)
		userRoutes.Get("/:id", middleware.RequireRoles(models.AdminRole), userController.RetrieveSingleUser)
	}
}
