// main.go
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pragun3669/DERMIFY/config"
	"github.com/pragun3669/DERMIFY/endpoint"
	"github.com/pragun3669/DERMIFY/middleware"
	"github.com/pragun3669/DERMIFY/ml"
	"github.com/pragun3669/DERMIFY/model"
	"github.com/pragun3669/DERMIFY/util"
	"gorm.io/gorm"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	db, err := config.ConnectMySQL()
	if err != nil {
		log.Fatalf("Error connecting to MySQL: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.Role{}, &model.Session{},
		&model.Disease{}, &model.DiseaseAlias{},
		&model.Report{}, &model.SecurityLog{},
	); err != nil {
		log.Fatalf("Error migrating schema: %v", err)
	}

	if err := model.SeedRoles(db); err != nil {
		log.Fatalf("Error seeding roles: %v", err)
	}
	if cfg.DiseaseSeed != "" {
		if err := model.SeedDiseases(db, cfg.DiseaseSeed); err != nil {
			log.Printf("Disease seed skipped: %v", err)
		}
	}
	if cfg.AliasSeed != "" {
		if err := model.SeedDiseaseAliases(db, cfg.AliasSeed); err != nil {
			log.Printf("Disease alias seed skipped: %v", err)
		}
	}

	util.SetSecurityLoggerDB(db)
	util.InitDiseaseCacheFromEnv()
	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable, session fast path disabled: %v", err)
	}

	classifier := ml.NewHTTPClassifier(cfg.MLImageURL, cfg.MLSymptomURL)

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := buildRouter(cfg, db, classifier)

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

func buildRouter(cfg *config.Config, db *gorm.DB, classifier ml.Classifier) *gin.Engine {
	// Create a Gin router with default middleware
	router := gin.Default()
	router.MaxMultipartMemory = cfg.UploadLimitMB << 20

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())

	// Basic HTTP handler for root path
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	api := router.Group("/api")
	{
		api.POST("/signup", endpoint.Signup)
		api.POST("/login", middleware.RateLimiter(middleware.RateLimitConfig{}), endpoint.Login)
		api.GET("/token/validate", endpoint.ValidateToken)
		api.GET("/diseases", endpoint.ListDiseases)
		api.GET("/disease-info/:diseaseName", endpoint.GetDiseaseInfo)

		protected := api.Group("")
		protected.Use(middleware.ValidateLoginToken())
		{
			protected.POST("/predict", endpoint.Predict(classifier, cfg.UploadLimitMB<<20))
			protected.POST("/predict-symptoms", endpoint.PredictSymptoms(classifier))
			protected.POST("/generate-pdf", endpoint.GeneratePDF(cfg.ImageRoot, cfg.ReportDir))
			protected.GET("/reports", endpoint.ListReports)
			protected.GET("/doctor/reports", middleware.RequireRole(model.RoleDoctor), endpoint.ListAllReports)
			protected.DELETE("/logout", endpoint.Logout)
		}
	}

	return router
}
