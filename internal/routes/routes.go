package routes

import (
	"github.com/gin-gonic/gin"

	"atlascrm/internal/authz"
	"atlascrm/internal/handlers"
	"atlascrm/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtKey []byte,
	leadHandler *handlers.LeadHandler,
	oppHandler *handlers.OpportunityHandler,
	quotationHandler *handlers.QuotationHandler,
	orderHandler *handlers.SalesOrderHandler,
) *gin.Engine {

	// everything below requires the externally issued token
	r.Use(middleware.AuthMiddleware(jwtKey))

	// LEADS
	leads := r.Group("/leads",
		middleware.RequireRoles(authz.RoleSales, authz.RoleManagerSales, authz.RoleSuperuser),
	)
	{
		leads.POST("/", leadHandler.Create)
		leads.GET("/", leadHandler.List)
		leads.GET("/:id", leadHandler.GetByID)
		leads.POST("/:id/field", leadHandler.UpdateField)
		leads.POST("/:id/status", leadHandler.UpdateStatus)
		leads.POST("/:id/assign", leadHandler.Assign)
		leads.PUT("/:id/convert", leadHandler.ConvertToOpportunity)
		leads.DELETE("/:id", leadHandler.Delete)
	}

	// OPPORTUNITIES (same table, opportunity phase)
	opps := r.Group("/opportunities",
		middleware.RequireRoles(authz.RoleSales, authz.RoleManagerSales, authz.RoleSuperuser),
	)
	{
		opps.GET("/", oppHandler.List)
		opps.GET("/:id/quotation", quotationHandler.GetByLead)
		opps.PUT("/:id/convert", oppHandler.ConvertToQuotation)
	}

	// QUOTATIONS
	quotations := r.Group("/quotations",
		middleware.RequireRoles(authz.RoleSales, authz.RoleManagerSales, authz.RoleSuperuser),
	)
	{
		quotations.GET("/", quotationHandler.List)
		quotations.GET("/:id", quotationHandler.GetByID)
		quotations.GET("/:id/pdf", quotationHandler.ServePDF)
		quotations.POST("/:id/submit", quotationHandler.Submit)
		quotations.POST("/:id/review", quotationHandler.Review)
		quotations.PUT("/:id/convert", quotationHandler.ConvertToSalesOrder)
	}

	// SALES ORDERS — POST / is a fixed refusal, orders exist only via convert
	orders := r.Group("/sales-orders",
		middleware.RequireRoles(
			authz.RoleSales, authz.RoleManagerSales,
			authz.RoleFinance, authz.RoleManagerFinance,
			authz.RoleSuperuser,
		),
	)
	{
		orders.POST("/", orderHandler.Create)
		orders.GET("/", orderHandler.List)
		orders.GET("/:id", orderHandler.GetByID)
		orders.GET("/:id/pdf", orderHandler.ServePDF)
		orders.POST("/:id/status", orderHandler.UpdateStatus)
		orders.POST("/:id/payment", orderHandler.MarkPaid)
	}

	return r
}
