package router

import (
	"invoiceflow-backend/db/models"
	"invoiceflow-backend/middleware"
	"invoiceflow-backend/ratecards/controllers"
	"invoiceflow-backend/ratecards/services"

	"github.com/gofiber/fiber/v2"
)

func RateCardRouterInit(app *fiber.App,
	appContext *middleware.AppContext,
	rateCardService *services.RateCardService,
) {
	rateCardController := &controllers.RateCardController{
		RateCardService: rateCardService,
	}

	rateCardRoutes := app.Group("/api/v1/rate-cards")
	rateCardRoutes.Use(
		middleware.ProtectedRoute(appContext),
		middleware.RequirePermission(models.ManageRateCardsPermission),
	)
	{
		rateCardRoutes.Get("/filtered", rateCardController.GetFilteredRateCards)
		rateCardRoutes.Post("/", rateCardController.CreateRateCard)
		rateCardRoutes.Post("/from-document", rateCardController.CreateRateCardFromDocument)

		rateCardRoutes.Get("/:id", rateCardController.GetRateCard)
		rateCardRoutes.Patch("/:id/deactivate", rateCardController.DeactivateRateCard)
	}
}
