package app

import (
	"database/sql"
	"fmt"
	"log"

	"atlascrm/internal/config"
	"atlascrm/internal/handlers"
	"atlascrm/internal/pdf"
	"atlascrm/internal/repositories"
	"atlascrm/internal/routes"
	"atlascrm/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "atlascrm/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	leadRepo := repositories.NewLeadRepository(db)
	quotationRepo := repositories.NewQuotationRepository(db)
	orderRepo := repositories.NewSalesOrderRepository(db)
	conversionStore := repositories.NewConversionStore(db)

	// === Services ===
	pipelineService := services.NewPipelineService(leadRepo)
	conversionService := services.NewConversionService(conversionStore)
	quotationService := services.NewQuotationService(quotationRepo)
	orderService := services.NewSalesOrderService(orderRepo)

	pdfGen := pdf.NewDocumentGenerator(cfg.Files.RootDir)

	// === Handlers ===
	leadHandler := handlers.NewLeadHandler(pipelineService, conversionService)
	oppHandler := handlers.NewOpportunityHandler(pipelineService, conversionService)
	quotationHandler := handlers.NewQuotationHandler(quotationService, conversionService, pdfGen)
	orderHandler := handlers.NewSalesOrderHandler(orderService, pdfGen)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		[]byte(cfg.Auth.JWTKey),
		leadHandler,
		oppHandler,
		quotationHandler,
		orderHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
