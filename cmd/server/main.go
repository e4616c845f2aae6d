package main

import (
	"context"
	"log"
	"time"

	"quarry-hive/internal/config"
	"quarry-hive/internal/controller"
	"quarry-hive/internal/fs"
	"quarry-hive/internal/hive"
	"quarry-hive/internal/middleware"
	"quarry-hive/internal/model"
	"quarry-hive/internal/repository"
	"quarry-hive/internal/scheduler"
	"quarry-hive/internal/security"
	"quarry-hive/internal/service"
	"quarry-hive/internal/walker"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize metastore connection
	db, err := config.InitMetastore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize metastore:", err)
	}

	// Auto migrate metastore schema
	if err := db.AutoMigrate(&model.Table{}); err != nil {
		log.Printf("Warning: Metastore migration failed: %v", err)
		log.Println("Continuing with existing metastore schema...")
	}

	// Initialize repositories
	tableRepo := repository.NewTableRepository(db)

	// Initialize filesystems
	filesystems := make(map[model.StorageKind]fs.FileSystem)
	if cfg.HDFS.Enabled {
		hdfsFS, err := fs.NewHDFSFileSystem(&fs.HDFSConfig{
			NameNodes: cfg.HDFS.NameNodes,
			Username:  cfg.HDFS.Username,
		})
		if err != nil {
			log.Fatalf("Failed to create HDFS filesystem: %v", err)
		}
		defer hdfsFS.Close()
		filesystems[model.StorageKindHDFS] = hdfsFS
	}
	if cfg.S3.Enabled {
		s3FS, err := fs.NewS3FileSystem(context.Background(), &fs.S3Config{
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			EndpointURL:    cfg.S3.EndpointURL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 filesystem: %v", err)
		}
		filesystems[model.StorageKindS3] = s3FS
	}

	// Shared worker pool for directory walks
	pool := walker.NewWorkerPool(cfg.Walker.PoolSize)
	defer pool.Stop()

	// Initialize scheduling state
	nodeManager := scheduler.NewNodeManager()

	// Initialize security
	jwtManager := security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTExpiration)
	authMiddleware := security.NewAuthMiddleware(jwtManager)

	// Initialize rate limiting
	rateLimitConfig := middleware.RateLimiterConfig{
		RPM:             cfg.Security.RateLimitPerMinute,
		Burst:           cfg.Security.RateLimitBurst,
		CleanupInterval: 5 * time.Minute,
	}
	rateLimiter := middleware.NewRateLimiter(rateLimitConfig)

	// Initialize metrics
	middleware.InitMetrics()

	// Initialize services
	calculator := hive.NewCalculator(hive.LogDiagnostics{})
	splitService := service.NewSplitService(tableRepo, filesystems, pool, calculator, nodeManager)

	// Initialize controllers
	tableController := controller.NewTableController(tableRepo, splitService)
	nodeAssignmentController := controller.NewNodeAssignmentController(nodeManager)
	healthController := controller.NewHealthController(db)

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.Cors())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.PrometheusMiddleware())

	// Add rate limiting if enabled
	if cfg.Security.EnableRateLimit {
		router.Use(rateLimiter.RateLimit())
	}

	// Health check and metrics endpoints (always available)
	router.GET("/health", healthController.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Node assignment surface
	nodeAssignment := router.Group("/v1/nodeassignment")
	{
		nodeAssignment.GET("", nodeAssignmentController.GetNodeAssignments)
		blacklist := nodeAssignment.Group("")
		if cfg.Security.EnableAuth {
			blacklist.Use(authMiddleware.RequireAuth())
		}
		blacklist.POST("/blacklist", nodeAssignmentController.SetBlacklist)
	}

	// API v1 group
	api := router.Group("/api/v1")

	auth := api.Group("")
	if cfg.Security.EnableAuth {
		auth.Use(authMiddleware.RequireAuth())
	}
	{
		// Metastore table endpoints
		tables := auth.Group("/tables")
		{
			tables.POST("", tableController.CreateTable)
			tables.GET("", tableController.GetTables)
			tables.GET("/:id", tableController.GetTable)
			tables.DELETE("/:id", tableController.DeleteTable)
		}

		// Split discovery
		splits := auth.Group("/splits")
		{
			splits.POST("/discover", tableController.DiscoverSplits)
		}
	}

	// Start server
	log.Printf("Starting server on port %s", cfg.Server.Port)
	log.Printf("Health check available at: http://localhost:%s/health", cfg.Server.Port)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
