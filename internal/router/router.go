// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/POSTANYIDEAS/Ecommerce/internal/config"
	"github.com/POSTANYIDEAS/Ecommerce/internal/handlers"
	"github.com/POSTANYIDEAS/Ecommerce/internal/middleware"
	"github.com/POSTANYIDEAS/Ecommerce/internal/services"
	"github.com/POSTANYIDEAS/Ecommerce/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	inventoryService := services.NewInventoryService(db)

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	productService := services.NewProductService(db)
	categoryService := services.NewCategoryService(db)
	orderService := services.NewOrderService(db, inventoryService)
	reportService := services.NewReportService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService, inventoryService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reportHandler := handlers.NewReportHandler(reportService)
	adminHandler := handlers.NewAdminHandler(userService)
	uploadHandler := handlers.NewUploadHandler(storageService)

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	api := r.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}
		api.POST("/admin/login", middleware.AuthRateLimit(), authHandler.AdminLogin)

		// Catalog routes
		products := api.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/details", productHandler.GetProductDetails)

			protected := products.Group("")
			protected.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				protected.POST("", productHandler.CreateProduct)
				protected.PUT("/:id", productHandler.UpdateProduct)
				protected.DELETE("/:id", productHandler.DeleteProduct)
				protected.POST("/:id/restock", productHandler.RestockProduct)
			}
		}

		productDetails := api.Group("/product-details")
		productDetails.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			productDetails.POST("", productHandler.CreateProductDetail)
			productDetails.PUT("/:id", productHandler.UpdateProductDetail)
			productDetails.DELETE("/:id", productHandler.DeleteProductDetail)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.GET("/:id/products", categoryHandler.GetCategoryProducts)

			protected := categories.Group("")
			protected.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				protected.POST("", categoryHandler.CreateCategory)
				protected.PUT("/:id", categoryHandler.UpdateCategory)
				protected.DELETE("/:id", categoryHandler.DeleteCategory)
			}
		}

		// Order routes
		orders := api.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", middleware.OrderRateLimit(), orderHandler.PlaceOrder)
			orders.GET("", middleware.AdminRequired(), orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.GET("/:id/bill", orderHandler.DownloadBill)
			orders.GET("/user/:userId", orderHandler.GetUserOrders)
			orders.PUT("/:id/status", middleware.AdminRequired(), orderHandler.UpdateOrderStatus)
		}

		// User profile routes
		users := api.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			customers := admin.Group("/customers")
			{
				customers.GET("", adminHandler.GetCustomers)
				customers.PUT("/:id", adminHandler.UpdateCustomer)
				customers.DELETE("/:id", adminHandler.DeleteCustomer)
			}
		}

		// Reporting routes
		reports := api.Group("/reports")
		reports.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			reports.GET("/daily-sales", reportHandler.DailySales)
			reports.GET("/monthly-sales", reportHandler.MonthlySales)
			reports.GET("/top-users", reportHandler.TopUsers)
			reports.GET("/product-sales", reportHandler.ProductSales)
			reports.GET("/summary", reportHandler.Summary)
			reports.GET("/recent-orders", reportHandler.RecentOrders)
			reports.GET("/revenue-by-date", reportHandler.RevenueByDate)
		}

		// Upload routes
		uploads := api.Group("/uploads")
		uploads.Use(middleware.AuthRequired(), middleware.UploadRateLimit())
		{
			uploads.POST("/image", uploadHandler.UploadImage)
			uploads.DELETE("/:key", middleware.AdminRequired(), uploadHandler.DeleteImage)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", cfg.Upload.LocalDir)
	}

	return r
}
