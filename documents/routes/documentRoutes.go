package router

import (
	"invoiceflow-backend/db/models"
	document_controllers "invoiceflow-backend/documents/controllers"
	"invoiceflow-backend/documents/services"
	"invoiceflow-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func DocumentRouterInit(app *fiber.App,
	appContext *middleware.AppContext,
	documentService *services.DocumentService,
) {
	documentController := &document_controllers.DocumentController{
		DocumentService: documentService,
	}

	documentRoutes := app.Group("/api/v1/documents")
	documentRoutes.Use(middleware.ProtectedRoute(appContext))
	{
		documentRoutes.Post("/",
			middleware.RequireRoles(models.AdminRole, models.ProjectManagerRole, models.FinanceUserRole, models.VendorRole),
			middleware.RequirePermission(models.UploadDocumentPermission),
			documentController.UploadDocument,
		)

		// Listing and search are for internal reviewers
		reviewers := middleware.RequireRoles(models.AdminRole, models.ProjectManagerRole, models.FinanceUserRole)
		documentRoutes.Get("/", reviewers, documentController.ListDocuments)
		documentRoutes.Get("/search", reviewers, documentController.SearchDocuments)

		// Access to a single document is checked per owner in the service
		documentRoutes.Get("/:id/download", documentController.DownloadDocument)
		documentRoutes.Get("/:id/validation-report", documentController.ExportValidationReport)
		documentRoutes.Delete("/:id", documentController.DeleteDocument)
	}
}
