package router

import (
	"invoiceflow-backend/invoices/controllers"
	"invoiceflow-backend/invoices/services"
	"invoiceflow-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func InvoiceRouterInit(app *fiber.App,
	appContext *middleware.AppContext,
	workflowService *services.WorkflowService,
	invoiceService *services.InvoiceService,
) {
	invoiceController := &controllers.InvoiceController{
		Workflow: workflowService,
		Invoices: invoiceService,
	}

	invoiceRoutes := app.Group("/api/v1/invoices")
	invoiceRoutes.Use(middleware.ProtectedRoute(appContext))
	{
		invoiceRoutes.Get("/:id", invoiceController.GetInvoice)
		invoiceRoutes.Get("/:id/audit-trail", invoiceController.GetInvoiceAuditTrail)
		invoiceRoutes.Post("/:id/workflow", invoiceController.ApplyWorkflowAction)
	}
}
