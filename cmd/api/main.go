package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webdev1881/retail-ftp-2/internal/config"
	"github.com/webdev1881/retail-ftp-2/internal/feed"
	"github.com/webdev1881/retail-ftp-2/internal/handler"
	"github.com/webdev1881/retail-ftp-2/internal/service"
)

func main() {
	cfg := config.Load()
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("Cannot create working directories: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer logger.Sync()

	// Set up dependencies (Connector -> Service -> Handler)
	connector := feed.NewFTPConnector(cfg.FTP, logger)
	reportService := service.NewReportService(cfg, connector, logger)
	reportHandler := handler.NewReportHandler(reportService, cfg.Dirs.Reports, logger)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Register API Routes
	reportHandler.RegisterRoutes(router.Group(""))

	logger.Info("server listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("ftp_host", cfg.FTP.Host))
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
