package router

import (
	"invoiceflow-backend/middleware"
	"invoiceflow-backend/notifications/controllers"
	"invoiceflow-backend/notifications/services"

	"github.com/gofiber/fiber/v2"
)

func NotificationRouterInit(app *fiber.App,
	appContext *middleware.AppContext,
	notificationService *services.NotificationService,
	reminderService *services.ReminderService,
	invoices controllers.InvoiceFinder,
) {
	notificationController := &controllers.NotificationController{
		Notifications: notificationService,
		Reminders:     reminderService,
		Invoices:      invoices,
	}

	notificationRoutes := app.Group("/api/v1/notifications")
	{
		notificationRoutes.Get("/", middleware.ProtectedRoute(appContext), notificationController.GetNotifications)
		notificationRoutes.Post("/send-reminders", middleware.AdminOrCronSecret(appContext), notificationController.SendReminders)
	}
}
